package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"
	"github.com/signadot/unfold/server"
	"go.lsp.dev/jsonrpc2"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %v", cli.ErrUsage, args)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	srv := server.New(server.WithConfig(cfg.Settings), server.WithIdleTimeout(cfg.Idle))
	if !cfg.Stdio {
		return srv.ListenAndServe(ctx, cfg.Network, cfg.Addr)
	}
	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{
		read:  cc.In,
		write: os.Stdout,
	})
	return srv.ServeStream(ctx, jsonrpc2.NewConn(stream))
}

// stdioReadWriteCloser joins standard input and output into one stream.
// Closing it leaves both open.
type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}
