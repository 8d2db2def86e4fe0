package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/signadot/unfold/intern"
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/libdiff"
	"github.com/signadot/unfold/tree"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	mode, err := libdiff.ParseMode(cfg.Mode)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	in := intern.New()
	left, err := cfg.loadTree(cc, args[0], in)
	if err != nil {
		return err
	}
	right, err := cfg.loadTree(cc, args[1], in)
	if err != nil {
		return err
	}
	if cfg.Reverse {
		left, right = right, left
	}
	if cfg.Patch {
		return diffPatch(cc.Out, left, right)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := libdiff.Compare(ctx, left, right, mode, libdiff.WithCheckInterval(cfg.Settings.Diff.CheckInterval))
	if err != nil {
		return err
	}
	if !cfg.Summary {
		p := &diffPrinter{w: cc.Out, left: left, right: right}
		if cfg.colors(cc.Out) != nil {
			p.add = color.New(color.FgGreen).SprintFunc()
			p.del = color.New(color.FgRed).SprintFunc()
			p.mod = color.New(color.FgYellow).SprintFunc()
		}
		entries := res.Entries
		if !cfg.All {
			entries = res.Changes()
		}
		for i := range entries {
			if err := p.print(&entries[i]); err != nil {
				return err
			}
		}
	}
	c := res.Counts
	fmt.Fprintf(cc.Out, "%d additions, %d deletions, %d modifications, %d unchanged\n",
		c.Additions, c.Deletions, c.Modifications, c.Unchanged)
	if c.Changed() > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diffPatch(w io.Writer, left, right *tree.Tree) error {
	p, err := libdiff.MergePatch(left, right)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", p); err != nil {
		return err
	}
	if string(p) != "{}" {
		return cli.ExitCodeErr(1)
	}
	return nil
}

type diffPrinter struct {
	w             io.Writer
	left, right   *tree.Tree
	add, del, mod func(...any) string
}

func (p *diffPrinter) print(e *libdiff.Entry) error {
	var line string
	switch e.Kind {
	case libdiff.Equal:
		line = "  " + e.Path
	case libdiff.Added:
		line = p.paint(p.add, "+ "+e.Path+": "+e.New)
	case libdiff.Removed:
		line = p.paint(p.del, "- "+e.Path+": "+e.Old)
	case libdiff.Modified:
		line = p.paint(p.mod, "~ "+e.Path+": ") + p.change(e)
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// change renders the Old and New text of a Modified entry.  With colors,
// two strings are shown as one string with the removed and added runs
// highlighted.
func (p *diffPrinter) change(e *libdiff.Entry) string {
	if p.add == nil || !p.isString(p.left, e.Left) || !p.isString(p.right, e.Right) {
		return e.Old + " -> " + e.New
	}
	b := &strings.Builder{}
	for _, sp := range libdiff.DiffString(e.Old, e.New) {
		switch sp.Kind {
		case libdiff.Added:
			b.WriteString(p.add(sp.Text))
		case libdiff.Removed:
			b.WriteString(p.del(sp.Text))
		default:
			b.WriteString(sp.Text)
		}
	}
	return b.String()
}

func (p *diffPrinter) isString(t *tree.Tree, i int) bool {
	n := t.Node(i)
	return n != nil && n.Value.Type == ir.StringType
}

func (p *diffPrinter) paint(f func(...any) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}
