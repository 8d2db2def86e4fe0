// Package server exposes loaded trees over JSON-RPC 2.0 so that a UI
// process can drive expansion, windowing, search and diff.
//
// Every connection gets its own set of trees.  A new search.run or
// diff.run on a connection cancels the one in flight, which is answered
// with CodeSuperseded.
package server

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/signadot/unfold/config"
	"github.com/signadot/unfold/debug"
	"github.com/sirupsen/logrus"
	"go.lsp.dev/jsonrpc2"
)

type serverConfig struct {
	cfg  config.Config
	idle time.Duration
}

type ServerOption func(*serverConfig)

func WithConfig(c config.Config) ServerOption {
	return func(s *serverConfig) { s.cfg = c }
}

// WithIdleTimeout makes Serve return once no client has been connected
// for d.
func WithIdleTimeout(d time.Duration) ServerOption {
	return func(s *serverConfig) { s.idle = d }
}

type Server struct {
	cfg  config.Config
	idle time.Duration
	log  *logrus.Entry
}

func New(opts ...ServerOption) *Server {
	sc := &serverConfig{cfg: *config.Default()}
	for _, o := range opts {
		o(sc)
	}
	return &Server{
		cfg:  sc.cfg,
		idle: sc.idle,
		log:  debug.Logger("rpc"),
	}
}

// ServeStream implements jsonrpc2.StreamServer.  It returns when the
// connection is closed.
func (s *Server) ServeStream(ctx context.Context, conn jsonrpc2.Conn) error {
	sess := newSession(s.cfg, s.log)
	defer sess.close()
	if debug.RPC() {
		s.log.Debug("connection opened")
	}
	conn.Go(ctx, sess.handle)
	<-conn.Done()
	if debug.RPC() {
		s.log.WithError(conn.Err()).Debug("connection closed")
	}
	return conn.Err()
}

// Serve accepts connections on ln until ctx is done or ln fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Infof("serving on %s", ln.Addr())
	return jsonrpc2.Serve(ctx, ln, s, s.idle)
}

func (s *Server) ListenAndServe(ctx context.Context, network, addr string) error {
	ln, err := net.Listen(network, addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	if network == "unix" {
		defer os.Remove(addr)
	}
	return s.Serve(ctx, ln)
}
