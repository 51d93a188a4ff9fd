// Package config loads roundup's settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"

	"github.com/abelbrown/roundup/internal/catalog"
)

// Config is the application configuration
type Config struct {
	Server     ServerConfig              `toml:"server"`
	Fetch      FetchConfig               `toml:"fetch"`
	Aggregate  AggregateConfig           `toml:"aggregate"`
	Log        LogConfig                 `toml:"log"`
	Categories map[string]CategoryConfig `toml:"categories"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// FetchConfig holds per-source fetch settings
type FetchConfig struct {
	Timeout      Duration `toml:"timeout"`
	UserAgent    string   `toml:"user_agent"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// AggregateConfig holds fan-out and paging settings
type AggregateConfig struct {
	Concurrency  int `toml:"concurrency"`  // 0 = default, negative = unbounded
	DefaultLimit int `toml:"default_limit"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `toml:"level"`
}

// CategoryConfig is one [categories.<name>] table
type CategoryConfig struct {
	Label string   `toml:"label"`
	Feeds []string `toml:"feeds"`
}

// Duration decodes TOML strings such as "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Fetch: FetchConfig{
			Timeout:      Duration{15 * time.Second},
			UserAgent:    "roundup/1.0 (+https://github.com/abelbrown/roundup)",
			MaxBodyBytes: 10 << 20,
		},
		Aggregate: AggregateConfig{
			Concurrency:  8,
			DefaultLimit: 20,
		},
		Log:        LogConfig{Level: "info"},
		Categories: defaultCategories(),
	}
}

func defaultCategories() map[string]CategoryConfig {
	return lo.SliceToMap(catalog.DefaultCategories(), func(c catalog.Category) (string, CategoryConfig) {
		return c.Name, CategoryConfig{Label: c.Label, Feeds: c.Feeds}
	})
}

// ConfigPath returns the default path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".roundup", "config.toml")
}

// Load reads config from path, or returns defaults when the file does not
// exist. Keys missing from the file keep their defaults; a file that declares
// any categories replaces the stock set entirely.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg.Categories = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = defaultCategories()
	}

	return cfg, nil
}

// ApplyEnv overrides settings from ROUNDUP_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ROUNDUP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ROUNDUP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ROUNDUP_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ROUNDUP_FETCH_TIMEOUT: %w", err)
		}
		c.Fetch.Timeout = Duration{d}
	}
	if v := os.Getenv("ROUNDUP_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ROUNDUP_CONCURRENCY: %w", err)
		}
		c.Aggregate.Concurrency = n
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Fetch.Timeout.Duration <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be positive, got %d", c.Fetch.MaxBodyBytes)
	}
	if c.Aggregate.DefaultLimit < 0 {
		return fmt.Errorf("aggregate.default_limit must not be negative, got %d", c.Aggregate.DefaultLimit)
	}
	if len(c.Categories) == 0 {
		return errors.New("no categories configured")
	}

	names := lo.Keys(c.Categories)
	slices.Sort(names)
	for _, name := range names {
		if name == "" {
			return errors.New("category with empty name")
		}
		if len(lo.Compact(c.Categories[name].Feeds)) == 0 {
			return fmt.Errorf("category %q has no feeds", name)
		}
	}
	return nil
}

// Catalog builds the immutable endpoint set from the configured categories.
func (c *Config) Catalog() *catalog.Catalog {
	cats := lo.MapToSlice(c.Categories, func(name string, cc CategoryConfig) catalog.Category {
		return catalog.Category{Name: name, Label: cc.Label, Feeds: lo.Compact(cc.Feeds)}
	})
	return catalog.New(cats)
}
