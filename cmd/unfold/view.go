package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/signadot/unfold/encode"
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/viewport"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: view takes at most one file, got %v", cli.ErrUsage, args)
	}
	t, err := cfg.loadTree(cc, files(args)[0], nil)
	if err != nil {
		return err
	}
	switch {
	case cfg.All:
		t.ExpandAll(t.Root())
	case cfg.Depth > 0:
		t.ExpandToDepth(cfg.Depth)
	}
	visible := t.Visible()
	rows := cfg.Rows
	if rows <= 0 {
		rows = len(visible)
	}
	nh := cfg.Settings.Viewport.NodeHeight
	r := viewport.Compute(viewport.Query{
		ScrollOffset:   float64(cfg.From) * nh,
		ViewportHeight: float64(rows) * nh,
		NodeHeight:     nh,
		TotalVisible:   len(visible),
	})
	colors := cfg.colors(cc.Out)
	for _, row := range viewport.Rows(t, visible, r) {
		if err := writeRow(cc.Out, &row, colors, cfg.Paths); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, row *viewport.Row, c *encode.Colors, paths bool) error {
	if c == nil {
		c = &encode.Colors{Default: func(v string, _ ...any) string { return v }}
	}
	b := &strings.Builder{}
	b.WriteString(c.Color(row.Kind, encode.GuideColor, row.Prefix))
	switch {
	case !row.Expandable:
	case row.Expanded:
		b.WriteString(c.Color(row.Kind, encode.SepColor, "▾ "))
	default:
		b.WriteString(c.Color(row.Kind, encode.SepColor, "▸ "))
	}
	if row.Key != "" {
		b.WriteString(c.Color(ir.ObjectType, encode.FieldColor, row.Key))
		b.WriteString(c.Color(row.Kind, encode.SepColor, ": "))
	}
	if row.Kind.IsLeaf() {
		b.WriteString(c.Color(row.Kind, encode.ValueColor, row.Display))
	} else {
		b.WriteString(c.Color(row.Kind, encode.GuideColor, row.Display))
	}
	if paths {
		b.WriteString("  ")
		b.WriteString(c.Color(row.Kind, encode.GuideColor, row.Path))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
