package tython

import (
	"os"

	"github.com/juju/errors"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v2"
)

// InterpreterConfig governs evaluator behavior that the language itself
// does not expose: recursion limits and diagnostic logging. Values are
// resolved in precedence order: built-in defaults, then an optional YAML
// file, then environment variables.
type InterpreterConfig struct {
	MaxCallDepth int  `yaml:"max_call_depth"`
	Debug        bool `yaml:"debug"`
}

// DefaultConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultConfig() *InterpreterConfig {
	return &InterpreterConfig{MaxCallDepth: 1000, Debug: false}
}

// LoadConfig resolves an InterpreterConfig by merging, in order: the
// defaults, an optional YAML file at path (skipped entirely if absent),
// and environment variables TYTHON_DEBUG / TYTHON_MAX_CALL_DEPTH.
func LoadConfig(path string) (*InterpreterConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Annotatef(err, "reading config %q", path)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Annotatef(err, "parsing config %q", path)
		}
	}

	cfg.Debug = env.BoolOr("TYTHON_DEBUG", cfg.Debug)
	cfg.MaxCallDepth = env.IntOr("TYTHON_MAX_CALL_DEPTH", cfg.MaxCallDepth)

	return cfg, nil
}
