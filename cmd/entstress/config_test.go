package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/assert"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("TOML", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "stress.toml", `
rounds = 3
workers = 2
batch = 10
free_ratio = 0.5

[logging]
format = "json"
`))
		assert.NoError(t, err)
		assert.Equal(t, cfg.Rounds, 3)
		assert.Equal(t, cfg.Workers, 2)
		assert.Equal(t, cfg.Batch, 10)
		assert.Equal(t, cfg.FreeRatio, 0.5)
		assert.Equal(t, cfg.Logging.Format, "json")

		// untouched fields keep their defaults
		assert.Equal(t, cfg.Singles, Defaults().Singles)
		assert.Equal(t, cfg.Logging.Level, "info")
	})

	t.Run("YAML", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "stress.yaml", `
rounds: 5
singles: 7
preallocate: 0
logging:
  level: debug
`))
		assert.NoError(t, err)
		assert.Equal(t, cfg.Rounds, 5)
		assert.Equal(t, cfg.Singles, 7)
		assert.Equal(t, cfg.Preallocate, 0)
		assert.Equal(t, cfg.Logging.Level, "debug")
		assert.Equal(t, cfg.Workers, Defaults().Workers)
	})

	t.Run("UnknownExtension", func(t *testing.T) {
		_, err := Load(writeConfig(t, "stress.ini", "rounds = 1"))
		assert.That(t, err != nil)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		assert.That(t, err != nil)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := Load(writeConfig(t, "stress.toml", "rounds = ["))
		assert.That(t, err != nil)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := Load(writeConfig(t, "stress.yml", "free_ratio: 2"))
		assert.That(t, err != nil)
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Defaults().Validate())

	for _, mut := range []func(*Config){
		func(c *Config) { c.Rounds = -1 },
		func(c *Config) { c.Workers = 0 },
		func(c *Config) { c.Singles = -1 },
		func(c *Config) { c.FreeRatio = -0.1 },
		func(c *Config) { c.FreeRatio = 1.1 },
		func(c *Config) { c.Preallocate = -1 },
	} {
		cfg := Defaults()
		mut(&cfg)
		assert.That(t, cfg.Validate() != nil)
	}
}
