package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func stats(cfg *StatsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Stats.Parse(cc, args)
	if err != nil {
		return err
	}
	for _, file := range files(args) {
		t, err := cfg.loadTree(cc, file, nil)
		if err != nil {
			return err
		}
		st := t.Stats()
		fmt.Fprintf(cc.Out, "%s: %d bytes, %d nodes, depth %d\n", file, st.FileSize, st.NodeCount, st.MaxDepth)
	}
	return nil
}
