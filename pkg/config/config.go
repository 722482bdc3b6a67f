package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/modulink/internal/logging"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the host configuration of a modulink process (the demo CLI, or
// any program embedding chains). The engine itself reads no files.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
	Chain   ChainConfig   `mapstructure:"chain" yaml:"chain" json:"chain"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache" json:"cache"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`    // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format" json:"format"` // text, json
}

type ChainConfig struct {
	MaxSteps  int  `mapstructure:"max_steps" yaml:"max_steps" json:"max_steps"`
	Immutable bool `mapstructure:"immutable" yaml:"immutable" json:"immutable"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace" json:"namespace"`
}

// CacheConfig selects the backend of memoized links.
type CacheConfig struct {
	Backend  string        `mapstructure:"backend" yaml:"backend" json:"backend"` // memory, redis
	Address  string        `mapstructure:"address" yaml:"address" json:"address"`
	Password string        `mapstructure:"password" yaml:"password" json:"password"`
	DB       int           `mapstructure:"db" yaml:"db" json:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix" json:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Chain:   ChainConfig{MaxSteps: 1000},
		Metrics: MetricsConfig{Namespace: "modulink"},
		Cache: CacheConfig{
			Backend: BackendMemory,
			Address: "localhost:6379",
			Prefix:  "modulink:memo:",
			TTL:     5 * time.Minute,
		},
	}
}

// Load reads a configuration file (YAML or JSON, by extension) over the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	if path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	return FromMap(raw)
}

// FromMap decodes a loosely typed map over the defaults and validates the result.
// Durations may be given as strings ("30s") and numbers as strings.
func FromMap(raw map[string]any) (Config, error) {
	cfg := Defaults()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
		TagName:          "mapstructure",
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can honor.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Log.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid config: unknown log format %q", c.Log.Format)
	}
	if c.Chain.MaxSteps < 0 {
		return fmt.Errorf("invalid config: chain.max_steps must not be negative")
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("invalid config: metrics.namespace is required when metrics are enabled")
	}
	switch c.Cache.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Cache.Address == "" {
			return fmt.Errorf("invalid config: cache.address is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid config: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid config: cache.ttl must not be negative")
	}
	return nil
}
