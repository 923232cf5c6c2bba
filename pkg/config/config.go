package config

import (
	"os"

	"github.com/mitchellh/mapstructure"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config carries the CLI's file-backed defaults. Flags override file values;
// file values override the zero configuration.
type Config struct {
	OutFile string `toml:"out_file" mapstructure:"out_file"`
	Compact bool   `toml:"compact" mapstructure:"compact"`
	Verbose bool   `toml:"verbose" mapstructure:"verbose"`
	JSONLog bool   `toml:"json_log" mapstructure:"json_log"`
}

// Load reads a TOML config file. A missing file is not an error: the zero
// config is returned so the CLI works without one.
func Load(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	var values map[string]any
	if err := toml.Unmarshal(raw, &values); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := mapstructure.Decode(values, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "decoding config %s", path)
	}
	return cfg, nil
}
