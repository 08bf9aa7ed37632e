// Package config loads flo.toml, the per-project defaults for the CLI.
//
//	schema   = "schema/flo_ir.json"  # relative to the config file
//	format   = "text"                # text | json
//	style    = "flowchart"           # flowchart | swimlane
//	condense = true
//	compact  = false
//	verbose  = false
//
// Command-line flags override every field.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up in the working directory.
const FileName = "flo.toml"

// Config holds project defaults.
type Config struct {
	Schema   string `toml:"schema"`
	Format   string `toml:"format"`
	Style    string `toml:"style"`
	Condense bool   `toml:"condense"`
	Compact  bool   `toml:"compact"`
	Verbose  bool   `toml:"verbose"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Format: "text", Style: "flowchart", Condense: true}
}

// Load reads the config at path. With an empty path, ./flo.toml is used if
// present and defaults otherwise. An explicit path must exist.
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("loading config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if cfg.Schema != "" && !filepath.IsAbs(cfg.Schema) {
		cfg.Schema = filepath.Join(filepath.Dir(path), cfg.Schema)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json, got %q", c.Format)
	}
	switch c.Style {
	case "flowchart", "swimlane":
	default:
		return fmt.Errorf("style must be flowchart or swimlane, got %q", c.Style)
	}
	return nil
}
