package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "SCOREBOARD_"
	envFile   = envPrefix + "CONFIG"
)

// Load builds a Config from defaults, the YAML file named by
// SCOREBOARD_CONFIG if set, and SCOREBOARD_* env vars, in that order of
// precedence (low to high).
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, os.Getenv(envFile))
}

// LoadFrom is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFrom(ctx context.Context, path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SCOREBOARD_FEED_QUEUE_SIZE -> feed_queue_size; keys stay flat.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
