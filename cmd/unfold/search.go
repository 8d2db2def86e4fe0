package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"
	"github.com/signadot/unfold/encode"
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/search"
	"github.com/signadot/unfold/tree"
)

func searchCmd(cfg *SearchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Search.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: search requires a pattern", cli.ErrUsage)
	}
	if cfg.Regex && cfg.Expr {
		return fmt.Errorf("%w: at most one of -r and -e", cli.ErrUsage)
	}
	q := search.Query{
		Pattern: args[0],
		Options: search.Options{
			CaseSensitive: cfg.CaseSensitive,
			UseRegex:      cfg.Regex,
			UseExpr:       cfg.Expr,
		},
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	colors := cfg.colors(cc.Out)
	total := 0
	for _, file := range files(args[1:]) {
		t, err := cfg.loadTree(cc, file, nil)
		if err != nil {
			return err
		}
		res, err := search.Search(ctx, t, q, search.WithCheckInterval(cfg.Settings.Search.CheckInterval))
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		total += len(res)
		if cfg.Count {
			fmt.Fprintf(cc.Out, "%s: %d\n", file, len(res))
			continue
		}
		for _, r := range res {
			fmt.Fprintln(cc.Out, formatHit(t, r, colors))
		}
	}
	if total == 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func formatHit(t *tree.Tree, r search.Result, c *encode.Colors) string {
	p, _ := t.Path(r.Index)
	n := t.Node(r.Index)
	if c == nil {
		return fmt.Sprintf("%s\t%s\t%s", p, r.Location, t.Text(r.Index))
	}
	attr := encode.GuideColor
	if n.IsLeaf() {
		attr = encode.ValueColor
	}
	return fmt.Sprintf("%s\t%s\t%s",
		c.Color(ir.ObjectType, encode.FieldColor, p),
		c.Color(n.Value.Type, encode.SepColor, r.Location.String()),
		c.Color(n.Value.Type, attr, t.Text(r.Index)))
}
