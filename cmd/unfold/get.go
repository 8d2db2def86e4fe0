package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/signadot/unfold"
	"github.com/signadot/unfold/encode"
	"github.com/signadot/unfold/ir"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	path := args[0]
	if path == "" {
		return fmt.Errorf("%w: invalid path \"\"", cli.ErrUsage)
	}
	if !strings.HasPrefix(path, ir.Root) {
		if path[0] != '.' && path[0] != '[' {
			path = "." + path
		}
		path = ir.Root + path
	}
	for _, file := range files(args[1:]) {
		d, err := readInput(cc, file)
		if err != nil {
			return err
		}
		t, err := unfold.LoadAt(d, path, cfg.loadOpts(nil)...)
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", file, path, err)
		}
		if n := t.Node(t.Root()); n.IsLeaf() {
			fmt.Fprintln(cc.Out, n.Value.Text())
			continue
		}
		if err := encode.Encode(t, t.Root(), cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return err
		}
	}
	return nil
}
