package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/unfold"
	"github.com/signadot/unfold/intern"
	"github.com/signadot/unfold/tree"
)

func unfoldMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	if err := cfg.loadSettings(); err != nil {
		return err
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) loadOpts(in *intern.Interner) []unfold.LoadOpt {
	opts := []unfold.LoadOpt{unfold.LoadLimits(cfg.Settings.Limits)}
	if in != nil {
		opts = append(opts, unfold.LoadInterner(in))
	}
	return opts
}

// loadTree loads the document at path, or standard input for "-".
func (cfg *MainConfig) loadTree(cc *cli.Context, path string, in *intern.Interner) (*tree.Tree, error) {
	if path != "-" {
		return unfold.LoadFile(path, cfg.loadOpts(in)...)
	}
	d, err := readInput(cc, path)
	if err != nil {
		return nil, err
	}
	t, err := unfold.Load(d, cfg.loadOpts(in)...)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	return t, nil
}

// readInput reads the file at path, or standard input for "-".
func readInput(cc *cli.Context, path string) ([]byte, error) {
	if path != "-" {
		return os.ReadFile(path)
	}
	d, err := io.ReadAll(cc.In)
	if err != nil {
		return nil, fmt.Errorf("error reading stdin: %w", err)
	}
	return d, nil
}

// files returns args, or standard input when there are none.
func files(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
