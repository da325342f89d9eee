package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/2x3systems/tagkit/grammar"
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds settings read from a --config file.
type Config struct {
	CatalogPath string `toml:"catalog_path" yaml:"catalog_path"`
	MaxPasses   int    `toml:"max_passes" yaml:"max_passes"`
	StepLimit   int    `toml:"step_limit" yaml:"step_limit"` // 0 scales with the input
	Trace       bool   `toml:"trace" yaml:"trace"`
}

// DefaultConfig is used when no config file is given.
var DefaultConfig = Config{
	CatalogPath: "tagkit.db",
	MaxPasses:   tagkit.DefaultMaxPasses,
}

// LoadConfig reads a TOML or YAML file (chosen by extension) over DefaultConfig.
func LoadConfig(pathname string) (Config, error) {
	cfg := DefaultConfig

	switch strings.ToLower(filepath.Ext(pathname)) {
	case ".toml":
		if _, err := toml.DecodeFile(pathname, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "reading config %q", pathname)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(pathname)
		if err != nil {
			return cfg, errors.Wrapf(err, "reading config %q", pathname)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parsing config %q", pathname)
		}
	default:
		return cfg, errors.Errorf("unsupported config format %q (expected .toml, .yaml or .yml)", pathname)
	}

	if cfg.MaxPasses < 0 || cfg.StepLimit < 0 {
		return cfg, errors.Errorf("config %q: max_passes and step_limit must not be negative", pathname)
	}
	return cfg, nil
}

// RunOpts converts the config into engine options.
func (cfg Config) RunOpts() grammar.RunOpts {
	return grammar.RunOpts{
		Lex: tagkit.LexOpts{
			Verbose:   cfg.Trace,
			StepLimit: cfg.StepLimit,
		},
		Parse: tagkit.ParseOpts{
			Verbose:   cfg.Trace,
			MaxPasses: cfg.MaxPasses,
		},
	}
}
