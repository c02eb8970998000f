// Package config loads findsimulator settings from a config file, a .env file
// and the environment, in increasing order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "findsimulator.yaml"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Duration is a time.Duration written as "5s", "1m30s", ... in config files.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds every setting of the CLI and the servers.
type Config struct {
	Platform string `yaml:"platform" json:"platform"`
	Major    string `yaml:"major" json:"major"`
	Minor    string `yaml:"minor" json:"minor"`
	Regex    string `yaml:"regex" json:"regex"`

	StrictSelectors bool `yaml:"strict_selectors" json:"strict_selectors"`
	LenientRegex    bool `yaml:"lenient_regex" json:"lenient_regex"`

	Xcrun     string   `yaml:"xcrun" json:"xcrun"`
	Timeout   Duration `yaml:"timeout" json:"timeout"`
	Inventory string   `yaml:"inventory" json:"inventory"`

	Cache CacheConfig `yaml:"cache" json:"cache"`

	LogLevel string `yaml:"log_level" json:"log_level"`
	Color    string `yaml:"color" json:"color"` // auto, always or never
}

// CacheConfig selects and tunes the inventory cache.
type CacheConfig struct {
	Backend string      `yaml:"backend" json:"backend"`
	TTL     Duration    `yaml:"ttl" json:"ttl"`
	Redis   RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig is used when Cache.Backend is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Platform: "ios",
		Major:    "latest",
		Minor:    "latest",
		Xcrun:    "/usr/bin/xcrun",
		Timeout:  Duration(30 * time.Second),
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     Duration(30 * time.Second),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "findsimulator:inventory:",
			},
		},
		LogLevel: "warn",
		Color:    "auto",
	}
}

// Load reads the file at path (YAML, or JSON when the extension is .json) over
// the defaults, then applies the .env file and the environment.
// An empty path means DefaultPath, which may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(path, data); err != nil {
			return nil, err
		}
	case os.IsNotExist(err) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(path string, data []byte) error {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ApplyEnv overrides fields from FINDSIMULATOR_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup("FINDSIMULATOR_" + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("XCRUN"); ok {
		c.Xcrun = v
	}
	if v, ok := get("INVENTORY"); ok {
		c.Inventory = v
	}
	if v, ok := get("CACHE"); ok {
		c.Cache.Backend = strings.ToLower(v)
	}
	if v, ok := get("CACHE_TTL"); ok {
		if err := c.Cache.TTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid FINDSIMULATOR_CACHE_TTL: %w", err)
		}
	}
	if v, ok := get("TIMEOUT"); ok {
		if err := c.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid FINDSIMULATOR_TIMEOUT: %w", err)
		}
	}
	if v, ok := get("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := get("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := get("REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FINDSIMULATOR_REDIS_DB: %w", err)
		}
		c.Cache.Redis.DB = db
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q (want none, memory or redis)", c.Cache.Backend)
	}
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color mode %q (want auto, always or never)", c.Color)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
