package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/unfold/encode"
)

func export(cfg *ExportConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Export.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: export takes at most one file, got %v", cli.ErrUsage, args)
	}
	file := files(args)[0]
	t, err := cfg.loadTree(cc, file, nil)
	if err != nil {
		return err
	}
	i := t.Root()
	if cfg.Path != "" {
		i, err = t.Lookup(cfg.Path)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	if cfg.Copy {
		s, err := encode.CopyText(t, i)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cc.Out, s)
		return err
	}
	return encode.Encode(t, i, cc.Out, cfg.encOpts(cc.Out)...)
}
