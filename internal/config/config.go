// Package config loads erdlayout settings from a TOML file.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tordrt/erdlayout/internal/layout"
)

// Config holds settings that can be set in a config file
type Config struct {
	Box    BoxConfig    `toml:"box"`
	Output OutputConfig `toml:"output"`
}

// BoxConfig overrides the metrics used to size entity boxes
type BoxConfig struct {
	HeaderHeight float64 `toml:"header_height"`
	RowHeight    float64 `toml:"row_height"`
	CharWidth    float64 `toml:"char_width"`
	Padding      float64 `toml:"padding"`
	MinWidth     float64 `toml:"min_width"`
}

// OutputConfig sets output defaults that flags can override
// An empty Format picks json for a single stream and markdown for a directory.
type OutputConfig struct {
	Format string `toml:"format"`
}

// Default returns the built-in configuration
func Default() Config {
	m := layout.DefaultBoxMetrics()
	return Config{
		Box: BoxConfig{
			HeaderHeight: m.HeaderHeight,
			RowHeight:    m.RowHeight,
			CharWidth:    m.CharWidth,
			Padding:      m.Padding,
			MinWidth:     m.MinWidth,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	b := c.Box
	if b.HeaderHeight < 0 || b.RowHeight <= 0 || b.CharWidth <= 0 || b.Padding < 0 || b.MinWidth < 0 {
		return fmt.Errorf("box metrics must be positive")
	}
	switch c.Output.Format {
	case "", "json", "text", "markdown":
		return nil
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
}

// Metrics converts the box settings for the layout engine
func (c Config) Metrics() layout.BoxMetrics {
	return layout.BoxMetrics{
		HeaderHeight: c.Box.HeaderHeight,
		RowHeight:    c.Box.RowHeight,
		CharWidth:    c.Box.CharWidth,
		Padding:      c.Box.Padding,
		MinWidth:     c.Box.MinWidth,
	}
}
