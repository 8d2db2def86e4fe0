// Package unfold loads JSON documents into trees ready for viewing,
// searching and diffing.
package unfold

import (
	"errors"
	"fmt"
	"os"

	"github.com/signadot/unfold/config"
	"github.com/signadot/unfold/intern"
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/parse"
	"github.com/signadot/unfold/tree"
)

type LoadConfig struct {
	Limits   config.Limits
	Interner *intern.Interner
}

type LoadOpt func(*LoadConfig)

func LoadLimits(l config.Limits) LoadOpt {
	return func(c *LoadConfig) { c.Limits = l }
}

// LoadInterner shares in between the trees loaded with it.
func LoadInterner(in *intern.Interner) LoadOpt {
	return func(c *LoadConfig) { c.Interner = in }
}

// Load parses d and builds its tree.  Syntax errors are
// *parse.SyntaxError; documents beyond the configured limits give a
// *tree.StructuralLimitError.
func Load(d []byte, opts ...LoadOpt) (*tree.Tree, error) {
	cfg := loadConfig(opts)
	y, err := parseDoc(d, cfg)
	if err != nil {
		return nil, err
	}
	return build(y, int64(len(d)), cfg)
}

// LoadAt parses d and builds a tree of only the value at path, such as
// root.users[2].  A path that addresses nothing gives
// tree.ErrPathNotFound.
func LoadAt(d []byte, path string, opts ...LoadOpt) (*tree.Tree, error) {
	cfg := loadConfig(opts)
	y, err := parseDoc(d, cfg)
	if err != nil {
		return nil, err
	}
	v, err := y.GetPath(path)
	switch {
	case errors.Is(err, ir.ErrBadPath):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %w", tree.ErrPathNotFound, path, err)
	case v == nil:
		return nil, fmt.Errorf("%w: %s", tree.ErrPathNotFound, path)
	}
	return build(v, int64(len(d)), cfg)
}

func loadConfig(opts []LoadOpt) *LoadConfig {
	cfg := &LoadConfig{Limits: config.Default().Limits}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

func parseDoc(d []byte, cfg *LoadConfig) (*ir.Node, error) {
	y, err := parse.Parse(d, parse.ParseMaxDepth(cfg.Limits.MaxDepth))
	if errors.Is(err, parse.ErrDepth) {
		return nil, &tree.StructuralLimitError{Limit: "depth", Max: cfg.Limits.MaxDepth}
	}
	return y, err
}

func build(y *ir.Node, size int64, cfg *LoadConfig) (*tree.Tree, error) {
	bopts := []tree.BuildOption{
		tree.WithMaxDepth(cfg.Limits.MaxDepth),
		tree.WithMaxNodes(cfg.Limits.MaxNodes),
		tree.WithExpandDepth(cfg.Limits.ExpandDepth),
	}
	if cfg.Limits.PathCacheSize > 0 {
		bopts = append(bopts, tree.WithPathCacheSize(cfg.Limits.PathCacheSize))
	}
	if cfg.Interner != nil {
		bopts = append(bopts, tree.WithInterner(cfg.Interner))
	}
	return tree.Build(y, size, bopts...)
}

// LoadFile reads and loads the file at path.
func LoadFile(path string, opts ...LoadOpt) (*tree.Tree, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Load(d, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
