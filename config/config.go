// Package config holds the tunables of the document engine: structural
// limits applied while building trees, cancellation polling intervals and
// viewport defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Limits   Limits   `yaml:"limits"`
	Search   Search   `yaml:"search"`
	Diff     Diff     `yaml:"diff"`
	Viewport Viewport `yaml:"viewport"`
}

// Limits bound the memory a single load may use.  Zero disables a limit.
type Limits struct {
	MaxDepth int `yaml:"maxDepth"`
	MaxNodes int `yaml:"maxNodes"`
	// ExpandDepth is the depth to which containers start expanded.
	ExpandDepth int `yaml:"expandDepth"`
	// PathCacheSize is the number of node paths each tree memoises.
	PathCacheSize int `yaml:"pathCacheSize"`
}

type Search struct {
	// CheckInterval is the number of nodes scanned between cancellation
	// checks.
	CheckInterval int `yaml:"checkInterval"`
}

type Diff struct {
	CheckInterval int `yaml:"checkInterval"`
}

type Viewport struct {
	NodeHeight float64 `yaml:"nodeHeight"`
	Buffer     int     `yaml:"buffer"`
}

func Default() *Config {
	return &Config{
		Limits: Limits{
			MaxDepth:      10000,
			MaxNodes:      50_000_000,
			ExpandDepth:   1,
			PathCacheSize: 4096,
		},
		Search:   Search{CheckInterval: 1024},
		Diff:     Diff{CheckInterval: 1024},
		Viewport: Viewport{NodeHeight: 16, Buffer: 5},
	}
}

// Load reads a YAML configuration file over the defaults and then applies
// environment overrides.  A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		d, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("could not read config %q: %w", path, err)
		default:
			if err := cfg.Decode(d); err != nil {
				return nil, fmt.Errorf("config %q: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode merges YAML data into cfg.  Unknown fields are rejected.
func (cfg *Config) Decode(d []byte) error {
	if err := yaml.UnmarshalWithOptions(d, cfg, yaml.Strict()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (cfg *Config) applyEnv(getenv func(string) string) error {
	for _, ev := range []struct {
		name string
		dst  *int
	}{
		{"UNFOLD_MAX_DEPTH", &cfg.Limits.MaxDepth},
		{"UNFOLD_MAX_NODES", &cfg.Limits.MaxNodes},
		{"UNFOLD_EXPAND_DEPTH", &cfg.Limits.ExpandDepth},
	} {
		v := getenv(ev.name)
		if v == "" {
			continue
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, ev.name, v, err)
		}
		*ev.dst = i
	}
	return nil
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.Limits.MaxDepth < 0:
		return fmt.Errorf("%w: limits.maxDepth %d < 0", ErrInvalid, cfg.Limits.MaxDepth)
	case cfg.Limits.MaxNodes < 0:
		return fmt.Errorf("%w: limits.maxNodes %d < 0", ErrInvalid, cfg.Limits.MaxNodes)
	case cfg.Limits.PathCacheSize < 0:
		return fmt.Errorf("%w: limits.pathCacheSize %d < 0", ErrInvalid, cfg.Limits.PathCacheSize)
	case cfg.Search.CheckInterval <= 0:
		return fmt.Errorf("%w: search.checkInterval must be positive", ErrInvalid)
	case cfg.Diff.CheckInterval <= 0:
		return fmt.Errorf("%w: diff.checkInterval must be positive", ErrInvalid)
	case cfg.Viewport.NodeHeight <= 0:
		return fmt.Errorf("%w: viewport.nodeHeight must be positive", ErrInvalid)
	case cfg.Viewport.Buffer < 0:
		return fmt.Errorf("%w: viewport.buffer %d < 0", ErrInvalid, cfg.Viewport.Buffer)
	}
	return nil
}
