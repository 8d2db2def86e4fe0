package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "unfold").
		WithSynopsis("unfold [opts] command [opts]").
		WithDescription("unfold views, searches and compares large JSON documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return unfoldMain(cfg, cc, args)
		}).
		WithSubs(
			StatsCommand(cfg),
			ViewCommand(cfg),
			SearchCommand(cfg),
			DiffCommand(cfg),
			ExportCommand(cfg),
			GetCommand(cfg),
			ServeCommand(cfg))
}

func StatsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StatsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Stats, "stats").
		WithAliases("st").
		WithSynopsis("stats [files]").
		WithDescription("print size, node count and depth of documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return stats(cfg, cc, args)
		})
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithOpts(opts...).
		WithSynopsis("view [-d depth | -a] [-from row] [-n rows] [file]").
		WithDescription("print a document as an indented tree of rows").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func SearchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SearchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Search, "search").
		WithAliases("s", "se").
		WithOpts(opts...).
		WithSynopsis("search [-c] [-r | -e] <pattern> [files]").
		WithDescription("print the paths of nodes whose key or value matches").
		WithRun(func(cc *cli.Context, args []string) error {
			return searchCmd(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Mode: "strict"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithOpts(opts...).
		WithSynopsis("diff [-m mode] [-r] [-a | -s | -p] a b").
		WithDescription("compare two documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func ExportCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ExportConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Export, "export").
		WithAliases("x").
		WithOpts(opts...).
		WithSynopsis("export [-p path] [-c] [file]").
		WithDescription("write a document or one of its values as json or yaml").
		WithRun(func(cc *cli.Context, args []string) error {
			return export(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g", "ge").
		WithSynopsis("get <path> [files]").
		WithDescription("print the value at a path such as root.users[2].email").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func ServeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ServeConfig{MainConfig: mainCfg, Addr: "localhost:7380", Network: "tcp"}
	idleOpt := &cli.Opt{
		Name:        "idle",
		Description: "exit after no client has been connected for this long",
		Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.mkIdle()), "(duration)"),
	}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, idleOpt)
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithOpts(opts...).
		WithSynopsis("serve [-addr addr] [-net tcp|unix] [-idle d] | serve -stdio").
		WithDescription(serveDescription).
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}

const serveDescription = `serve answers JSON-RPC 2.0 requests from a viewer.

Each connection has its own set of loaded trees.  Methods:

  tree.load         {name?, path? | text?} -> {name, stats}
  tree.stats        {tree} -> {fileSize, nodeCount, maxDepth}
  tree.visible      {tree} -> {visible}
  tree.toggle       {tree, index} -> {expanded}
  tree.expandAll    {tree, index} -> {visible}
  tree.collapseAll  {tree, index} -> {visible}
  tree.path         {tree, index | path} -> {index, path}
  tree.window       {tree, scrollOffset, viewportHeight, nodeHeight?, buffer?}
                    -> {range, totalVisible, rows}
  tree.export       {tree, index, format?, minify?, copy?} -> {text}
  search.run        {tree, pattern, caseSensitive?, useRegex?, useExpr?} -> {results}
  search.reveal     {tree, indices} -> {positions, totalVisible}
  diff.run          {left, right, mode?} -> {mode, entries, counts}
  diff.patch        {left, right} -> {patch}

A search.run or diff.run is answered with error code -32800 once a newer
one of the same kind arrives.`
