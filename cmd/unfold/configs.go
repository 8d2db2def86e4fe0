package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/unfold/config"
	"github.com/signadot/unfold/encode"
)

type MainConfig struct {
	ConfigFile string `cli:"name=config desc='configuration file (default $UNFOLD_CONFIG)'"`
	Color      bool   `cli:"name=color desc='output in color'"`
	WireOut    bool   `cli:"name=wire desc='output minified json'"`

	OutFormat *encode.Format

	Out      string
	CloseOut func() error

	Settings config.Config

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fp **encode.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := encode.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}

func (cfg *MainConfig) loadSettings() error {
	path := cfg.ConfigFile
	if path == "" {
		path = os.Getenv("UNFOLD_CONFIG")
	}
	s, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.Settings = *s
	return nil
}

// colors returns the colors to write to w with, or nil for plain output.
// Without an explicit -color, terminals get colors.
func (cfg *MainConfig) colors(w io.Writer) *encode.Colors {
	if cfg.Color {
		return encode.NewColors()
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return nil
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return encode.NewColors()
	}
	return nil
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	var f encode.Format
	if cfg.OutFormat != nil {
		f = *cfg.OutFormat
	}
	res := []encode.EncodeOption{
		encode.EncodeFormat(f),
		encode.EncodeWire(cfg.WireOut),
	}
	if c := cfg.colors(w); c != nil {
		res = append(res, encode.EncodeColors(c))
	}
	return res
}

type StatsConfig struct {
	*MainConfig

	Stats *cli.Command
}

type ViewConfig struct {
	*MainConfig

	Depth int  `cli:"name=d aliases=depth desc='expand containers shallower than this depth'"`
	All   bool `cli:"name=a aliases=all desc='expand everything'"`
	From  int  `cli:"name=from desc='first row to show'"`
	Rows  int  `cli:"name=n aliases=rows desc='number of rows to show (default all)'"`
	Paths bool `cli:"name=p aliases=paths desc='show the path of each row'"`

	View *cli.Command
}

type SearchConfig struct {
	*MainConfig

	CaseSensitive bool `cli:"name=c aliases=case desc='match case'"`
	Regex         bool `cli:"name=r aliases=regex desc='pattern is a regular expression'"`
	Expr          bool `cli:"name=e aliases=expr desc='pattern is an expression over key, value, type, depth, path and isLeaf'"`
	Count         bool `cli:"name=count desc='print only the number of matches'"`

	Search *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Mode    string `cli:"name=m aliases=mode desc='strict, semantic, flexible or schema'"`
	Reverse bool   `cli:"name=r desc='reverse the diff'"`
	All     bool   `cli:"name=a aliases=all desc='include unchanged entries'"`
	Patch   bool   `cli:"name=p aliases=patch desc='print a merge patch instead'"`
	Summary bool   `cli:"name=s aliases=summary desc='print only the counts'"`

	Diff *cli.Command
}

type ExportConfig struct {
	*MainConfig

	Path string `cli:"name=p aliases=path desc='export the value at this path'"`
	Copy bool   `cli:"name=c aliases=copy desc='scalars as raw text, containers on one line'"`

	Export *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type ServeConfig struct {
	*MainConfig

	Addr    string `cli:"name=addr desc='address to listen on'"`
	Network string `cli:"name=net desc='tcp or unix'"`
	Stdio   bool   `cli:"name=stdio desc='serve a single client on stdin and stdout'"`
	Idle    time.Duration

	Serve *cli.Command
}

func (cfg *ServeConfig) mkIdle() func(cc *cli.Context, a string) (any, error) {
	return func(_ *cli.Context, a string) (any, error) {
		d, err := time.ParseDuration(a)
		if err != nil {
			return nil, err
		}
		cfg.Idle = d
		return d, nil
	}
}
