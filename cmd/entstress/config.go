package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/zeebo/errs/v2"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Rounds      int           `toml:"rounds" yaml:"rounds"`
	Workers     int           `toml:"workers" yaml:"workers"`
	Singles     int           `toml:"singles" yaml:"singles"`         // single reservations per worker per round
	Batch       uint32        `toml:"batch" yaml:"batch"`             // size of the batch reservation per worker per round
	FreeRatio   float64       `toml:"free_ratio" yaml:"free_ratio"`   // fraction of live entities freed after each round (0.0-1.0)
	Preallocate int           `toml:"preallocate" yaml:"preallocate"` // entities allocated before the first round
	Logging     LoggingConfig `toml:"logging" yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

func Defaults() Config {
	return Config{
		Rounds:      16,
		Workers:     8,
		Singles:     256,
		Batch:       256,
		FreeRatio:   0.25,
		Preallocate: 1024,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config at path over Defaults. The format is chosen by the
// file extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errs.Wrap(err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, errs.Errorf("unknown config format %q", ext)
	}
	if err != nil {
		return cfg, errs.Errorf("parse config %s: %v", path, err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Rounds < 0:
		return errs.Errorf("rounds must be non-negative: %d", c.Rounds)
	case c.Workers <= 0:
		return errs.Errorf("workers must be positive: %d", c.Workers)
	case c.Singles < 0:
		return errs.Errorf("singles must be non-negative: %d", c.Singles)
	case c.FreeRatio < 0 || c.FreeRatio > 1:
		return errs.Errorf("free_ratio must be within [0, 1]: %v", c.FreeRatio)
	case c.Preallocate < 0:
		return errs.Errorf("preallocate must be non-negative: %d", c.Preallocate)
	}
	return nil
}
