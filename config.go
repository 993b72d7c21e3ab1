package sloginit

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the TOML shape of a logging section.
//
//	filter = "streams=debug,info"
//	format = "text"
//	outputs = ["", "app.log"]
type Config struct {
	Filter  string   `toml:"filter"`
	Format  string   `toml:"format"`
	Outputs []string `toml:"outputs"`
}

// LoadConfig reads a TOML logging config from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
	}
	return c, nil
}

// Compose builds an uninstalled backend from the config. An empty filter
// defaults to "info"; an empty format means the human-readable line format.
func (c Config) Compose() (*Backend, error) {
	outputs := make([]Output, 0, len(c.Outputs))
	for _, s := range c.Outputs {
		outputs = append(outputs, ParseOutput(s))
	}
	opts, err := outputOptions(outputs)
	if err != nil {
		return nil, err
	}

	switch c.Format {
	case "", "text":
	case "json":
		opts = append(opts, WithJSON())
	default:
		return nil, newError(ErrCodeBadFormat, fmt.Sprintf("unknown log format %q", c.Format), nil)
	}

	filter := c.Filter
	if filter == "" {
		filter = "info"
	}
	return NewBackend(append(opts, WithFilterOr(filter))...)
}
