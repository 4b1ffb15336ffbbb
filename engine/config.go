package engine

import (
	"time"

	"github.com/BurntSushi/toml"
)

// LoaderConfig holds grammar-resolution settings: SearchPaths lists
// directories for grammar files and CacheDir names a directory for a
// grammarcache.Store. It is read from TOML with github.com/BurntSushi/toml,
// the same library tunaq's own configuration uses, so a host can check in a
// glrfront.toml next to its grammar files. Nothing in this module reads
// either field: Inherits directives resolve only against the base grammars
// registered on a grammar.Loader, and no Store is created from CacheDir.
type LoaderConfig struct {
	SearchPaths []string `toml:"search_paths"`
	CacheDir    string   `toml:"cache_dir"`
}

// EngineConfig configures one Engine's default parse behavior.
type EngineConfig struct {
	Loader LoaderConfig `toml:"loader"`

	MaxSteps        int `toml:"max_steps"`
	MaxPaths        int `toml:"max_paths"`
	NoProgressLimit int `toml:"no_progress_limit"`

	DeadlineSeconds int `toml:"deadline_seconds"`
}

// LoadEngineConfigFile reads and decodes an EngineConfig from a TOML file.
func LoadEngineConfigFile(path string) (EngineConfig, error) {
	var cfg EngineConfig
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

// LoadEngineConfig decodes an EngineConfig from TOML text already in
// memory, for callers that pre-read configuration rather than letting the
// loader touch the filesystem.
func LoadEngineConfig(text string) (EngineConfig, error) {
	var cfg EngineConfig
	_, err := toml.Decode(text, &cfg)
	return cfg, err
}

// ParseOptions converts the config's bounds/deadline fields into the
// ParseOptions Engine.Parse expects, defaulting zero fields to
// glr.DefaultBounds()'s values via Engine.Parse's own zero-value handling.
func (c EngineConfig) ParseOptions() ParseOptions {
	opts := ParseOptions{}
	opts.Bounds.MaxSteps = c.MaxSteps
	opts.Bounds.MaxPaths = c.MaxPaths
	opts.Bounds.NoProgressLimit = c.NoProgressLimit
	if c.DeadlineSeconds > 0 {
		opts.Deadline = time.Duration(c.DeadlineSeconds) * time.Second
	}
	return opts
}
