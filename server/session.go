package server

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/segmentio/encoding/json"
	"github.com/signadot/unfold"
	"github.com/signadot/unfold/config"
	"github.com/signadot/unfold/debug"
	"github.com/signadot/unfold/encode"
	"github.com/signadot/unfold/intern"
	"github.com/signadot/unfold/libdiff"
	"github.com/signadot/unfold/search"
	"github.com/signadot/unfold/tree"
	"github.com/signadot/unfold/viewport"
	"github.com/sirupsen/logrus"
	"go.lsp.dev/jsonrpc2"
)

type method func(ctx context.Context, params json.RawMessage) (any, error)

// session is the state of one connection.
type session struct {
	cfg      config.Config
	log      *logrus.Entry
	interner *intern.Interner
	searcher *search.Searcher
	differ   *libdiff.Differ
	searches pending
	diffs    pending
	methods  map[string]method

	mu    sync.Mutex
	trees map[string]*tree.Tree
	seq   int
}

func newSession(cfg config.Config, log *logrus.Entry) *session {
	s := &session{
		cfg:      cfg,
		log:      log,
		interner: intern.New(),
		searcher: search.NewSearcher(search.WithCheckInterval(cfg.Search.CheckInterval)),
		differ:   libdiff.NewDiffer(libdiff.WithCheckInterval(cfg.Diff.CheckInterval)),
		trees:    map[string]*tree.Tree{},
	}
	s.methods = map[string]method{
		"tree.load":        s.load,
		"tree.stats":       s.stats,
		"tree.visible":     s.visible,
		"tree.toggle":      s.toggle,
		"tree.expandAll":   s.expandAll,
		"tree.collapseAll": s.collapseAll,
		"tree.path":        s.path,
		"tree.window":      s.window,
		"tree.export":      s.export,
		"search.reveal":    s.reveal,
		"diff.patch":       s.patch,
	}
	return s
}

func (s *session) close() {
	s.searcher.Cancel()
	s.differ.Cancel()
}

func (s *session) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if debug.RPC() {
		s.log.WithField("method", req.Method()).Debugf("request %s", req.Params())
	}
	switch req.Method() {
	case "search.run":
		return s.searchRun(ctx, reply, req.Params())
	case "diff.run":
		return s.diffRun(ctx, reply, req.Params())
	}
	m, ok := s.methods[req.Method()]
	if !ok {
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
	res, err := m(ctx, req.Params())
	return s.reply(ctx, reply, req.Method(), res, err)
}

func (s *session) reply(ctx context.Context, reply jsonrpc2.Replier, name string, res any, err error) error {
	if err != nil && debug.RPC() {
		s.log.WithField("method", name).WithError(err).Debug("request failed")
	}
	return reply(ctx, res, rpcError(err))
}

func decode(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, "missing params")
	}
	if err := json.Unmarshal(params, v); err != nil {
		return jsonrpc2.Errorf(jsonrpc2.InvalidParams, "bad params: %v", err)
	}
	return nil
}

func (s *session) tree(name string) (*tree.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trees[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnknownTree, name)
	}
	return t, nil
}

func node(t *tree.Tree, i int) (*tree.Node, error) {
	n := t.Node(i)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", tree.ErrIndexOutOfRange, i)
	}
	return n, nil
}

func (s *session) nodeParams(params json.RawMessage) (*tree.Tree, int, error) {
	var p NodeParams
	if err := decode(params, &p); err != nil {
		return nil, 0, err
	}
	t, err := s.tree(p.Tree)
	if err != nil {
		return nil, 0, err
	}
	if _, err := node(t, p.Index); err != nil {
		return nil, 0, err
	}
	return t, p.Index, nil
}

func (s *session) load(_ context.Context, params json.RawMessage) (any, error) {
	var p LoadParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	opts := []unfold.LoadOpt{
		unfold.LoadLimits(s.cfg.Limits),
		unfold.LoadInterner(s.interner),
	}
	var (
		t   *tree.Tree
		err error
	)
	if p.Path != "" {
		t, err = unfold.LoadFile(p.Path, opts...)
	} else {
		t, err = unfold.Load([]byte(p.Text), opts...)
	}
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := p.Name
	if name == "" {
		name = p.Path
	}
	if name == "" {
		s.seq++
		name = fmt.Sprintf("doc%d", s.seq)
	}
	s.trees[name] = t
	if debug.RPC() {
		s.log.Debugf("loaded %q: %d nodes", name, t.Len())
	}
	return &LoadResult{Name: name, Stats: t.Stats()}, nil
}

func (s *session) stats(_ context.Context, params json.RawMessage) (any, error) {
	var p TreeParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	t, err := s.tree(p.Tree)
	if err != nil {
		return nil, err
	}
	return t.Stats(), nil
}

func (s *session) visible(_ context.Context, params json.RawMessage) (any, error) {
	var p TreeParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	t, err := s.tree(p.Tree)
	if err != nil {
		return nil, err
	}
	return &VisibleResult{Visible: t.Visible()}, nil
}

func (s *session) toggle(_ context.Context, params json.RawMessage) (any, error) {
	t, i, err := s.nodeParams(params)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Expanded: t.Toggle(i)}, nil
}

func (s *session) expandAll(_ context.Context, params json.RawMessage) (any, error) {
	t, i, err := s.nodeParams(params)
	if err != nil {
		return nil, err
	}
	t.ExpandAll(i)
	return &VisibleResult{Visible: t.Visible()}, nil
}

func (s *session) collapseAll(_ context.Context, params json.RawMessage) (any, error) {
	t, i, err := s.nodeParams(params)
	if err != nil {
		return nil, err
	}
	t.CollapseAll(i)
	return &VisibleResult{Visible: t.Visible()}, nil
}

func (s *session) path(_ context.Context, params json.RawMessage) (any, error) {
	var p PathParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	t, err := s.tree(p.Tree)
	if err != nil {
		return nil, err
	}
	if p.Path != "" {
		i, err := t.Lookup(p.Path)
		if err != nil {
			return nil, err
		}
		return &PathResult{Index: i, Path: p.Path}, nil
	}
	path, ok := t.Path(p.Index)
	if !ok {
		return nil, fmt.Errorf("%w: %d", tree.ErrIndexOutOfRange, p.Index)
	}
	return &PathResult{Index: p.Index, Path: path}, nil
}

func (s *session) window(_ context.Context, params json.RawMessage) (any, error) {
	var p WindowParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	t, err := s.tree(p.Tree)
	if err != nil {
		return nil, err
	}
	q := viewport.Query{
		ScrollOffset:   p.ScrollOffset,
		ViewportHeight: p.ViewportHeight,
		NodeHeight:     p.NodeHeight,
		Buffer:         s.cfg.Viewport.Buffer,
	}
	if q.NodeHeight == 0 {
		q.NodeHeight = s.cfg.Viewport.NodeHeight
	}
	if p.Buffer != nil {
		q.Buffer = *p.Buffer
	}
	visible := t.Visible()
	q.TotalVisible = len(visible)
	r := viewport.Compute(q)
	return &WindowResult{
		Range:        r,
		TotalVisible: len(visible),
		Rows:         viewport.Rows(t, visible, r),
	}, nil
}

func (s *session) export(_ context.Context, params json.RawMessage) (any, error) {
	var p ExportParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	t, err := s.tree(p.Tree)
	if err != nil {
		return nil, err
	}
	if _, err := node(t, p.Index); err != nil {
		return nil, err
	}
	if p.Copy {
		text, err := encode.CopyText(t, p.Index)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Text: text}, nil
	}
	buf := bytes.NewBuffer(nil)
	err = encode.Encode(t, p.Index, buf, encode.EncodeFormat(p.Format), encode.EncodeWire(p.Minify))
	if err != nil {
		return nil, err
	}
	return &ExportResult{Text: buf.String()}, nil
}

func (s *session) reveal(_ context.Context, params json.RawMessage) (any, error) {
	var p RevealParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	t, err := s.tree(p.Tree)
	if err != nil {
		return nil, err
	}
	rs := make([]search.Result, len(p.Indices))
	for j, i := range p.Indices {
		if _, err := node(t, i); err != nil {
			return nil, err
		}
		rs[j] = search.Result{Index: i}
	}
	search.Reveal(t, rs)
	visible := t.Visible()
	return &RevealResult{
		Positions:    search.Positions(visible, rs),
		TotalVisible: len(visible),
	}, nil
}

func (s *session) patch(_ context.Context, params json.RawMessage) (any, error) {
	var p PatchParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	l, err := s.tree(p.Left)
	if err != nil {
		return nil, err
	}
	r, err := s.tree(p.Right)
	if err != nil {
		return nil, err
	}
	d, err := libdiff.MergePatch(l, r)
	if err != nil {
		return nil, err
	}
	return &PatchResult{Patch: json.RawMessage(d)}, nil
}

func (s *session) searchRun(ctx context.Context, reply jsonrpc2.Replier, params json.RawMessage) error {
	var p SearchParams
	if err := decode(params, &p); err != nil {
		return s.reply(ctx, reply, "search.run", nil, err)
	}
	t, err := s.tree(p.Tree)
	if err != nil {
		return s.reply(ctx, reply, "search.run", nil, err)
	}
	w := s.searches.replace(reply)
	s.searcher.Submit(ctx, t, p.Query, func(res []search.Result, err error) {
		if !s.searches.take(w) {
			return
		}
		if res == nil {
			res = []search.Result{}
		}
		if err := s.reply(ctx, w.reply, "search.run", &SearchResult{Results: res}, err); err != nil {
			s.log.WithError(err).Warn("search reply failed")
		}
	})
	return nil
}

func (s *session) diffRun(ctx context.Context, reply jsonrpc2.Replier, params json.RawMessage) error {
	var p DiffParams
	if err := decode(params, &p); err != nil {
		return s.reply(ctx, reply, "diff.run", nil, err)
	}
	l, err := s.tree(p.Left)
	if err != nil {
		return s.reply(ctx, reply, "diff.run", nil, err)
	}
	r, err := s.tree(p.Right)
	if err != nil {
		return s.reply(ctx, reply, "diff.run", nil, err)
	}
	w := s.diffs.replace(reply)
	s.differ.Submit(ctx, l, r, p.Mode, func(res *libdiff.Result, err error) {
		if !s.diffs.take(w) {
			return
		}
		if err := s.reply(ctx, w.reply, "diff.run", res, err); err != nil {
			s.log.WithError(err).Warn("diff reply failed")
		}
	})
	return nil
}

type waiter struct {
	reply jsonrpc2.Replier
}

// pending tracks the one request of a kind still waiting for its result.
type pending struct {
	mu  sync.Mutex
	cur *waiter
}

// replace makes reply the waiting request and answers the previous one
// with CodeSuperseded.
func (p *pending) replace(reply jsonrpc2.Replier) *waiter {
	w := &waiter{reply: reply}
	p.mu.Lock()
	old := p.cur
	p.cur = w
	p.mu.Unlock()
	if old != nil {
		old.reply(context.Background(), nil, jsonrpc2.NewError(CodeSuperseded, "superseded by a newer request"))
	}
	return w
}

// take reports whether w is still waiting, and if so stops tracking it.
func (p *pending) take(w *waiter) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur != w {
		return false
	}
	p.cur = nil
	return true
}
