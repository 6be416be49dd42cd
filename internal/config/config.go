// Package config loads cadmark settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds the runtime settings.
type Config struct {
	LogLevel      string  `mapstructure:"log_level"      env:"CADMARK_LOG_LEVEL"`
	Store         string  `mapstructure:"store"          env:"CADMARK_STORE"`
	DrawingDir    string  `mapstructure:"drawing_dir"    env:"CADMARK_DRAWING_DIR"`
	RedisAddr     string  `mapstructure:"redis_addr"     env:"CADMARK_REDIS_ADDR"`
	RedisPrefix   string  `mapstructure:"redis_prefix"   env:"CADMARK_REDIS_PREFIX"`
	DefaultScale  string  `mapstructure:"default_scale"  env:"CADMARK_DEFAULT_SCALE"`
	GripTolerance float64 `mapstructure:"grip_tolerance" env:"CADMARK_GRIP_TOLERANCE"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:      "info",
		Store:         StoreFile,
		DrawingDir:    ".cadmark",
		RedisAddr:     "localhost:6379",
		RedisPrefix:   "cadmark:drawing:",
		DefaultScale:  "1:1",
		GripTolerance: 1e-6,
	}
}

// Load reads path over the defaults, then applies the environment.
// A missing file is not an error; an empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.Store == StoreFile && c.DrawingDir == "" {
		return errors.New("file store requires drawing_dir")
	}
	if c.GripTolerance < 0 {
		return fmt.Errorf("grip_tolerance must not be negative, got %g", c.GripTolerance)
	}
	return nil
}
