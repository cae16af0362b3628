// Package config loads the optional CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. A missing file at
// the default path is not an error.
const DefaultPath = "minibmg.yaml"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds the settings shared by the CLI commands.
type Config struct {
	Seed        uint64 `mapstructure:"seed"`
	MaxDepth    int    `mapstructure:"max_depth"`
	LogLevel    string `mapstructure:"log_level"`
	Store       string `mapstructure:"store"`
	StorePath   string `mapstructure:"store_path"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`
	Listen      string `mapstructure:"listen"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Seed:        1,
		MaxDepth:    8,
		LogLevel:    "warn",
		Store:       StoreMemory,
		StorePath:   ".minibmg/graphs",
		RedisAddr:   "localhost:6379",
		RedisPrefix: "minibmg:graph:",
		Listen:      ":8080",
	}
}

// Load reads path on top of the defaults. An empty path means DefaultPath,
// which may be absent.
func Load(path string) (Config, error) {
	optional := path == ""
	if optional {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document on top of the defaults. Unknown keys are
// rejected so typos surface.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(raw) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &cfg,
		})
		if err != nil {
			return Config{}, err
		}
		if err := dec.Decode(raw); err != nil {
			return Config{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed by a default.
func (c Config) Validate() error {
	if c.MaxDepth < 2 {
		return fmt.Errorf("max_depth must be at least 2, got %d", c.MaxDepth)
	}
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want memory, file or redis)", c.Store)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
	return l, nil
}
