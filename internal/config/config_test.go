package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout.Duration)
	assert.Equal(t, int64(10<<20), cfg.Fetch.MaxBodyBytes)
	assert.Equal(t, 8, cfg.Aggregate.Concurrency)
	assert.Equal(t, 20, cfg.Aggregate.DefaultLimit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.ElementsMatch(t, []string{"tech", "business", "science", "health"}, keys(cfg.Categories))
	require.NoError(t, cfg.Validate())
}

func keys(m map[string]CategoryConfig) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesAndKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = "127.0.0.1:9000"

[fetch]
timeout = "3s"

[aggregate]
concurrency = 2

[categories.golang]
label = "Go"
feeds = ["https://go.dev/blog/feed.atom", ""]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout.Duration)
	assert.Equal(t, DefaultConfig().Fetch.UserAgent, cfg.Fetch.UserAgent)
	assert.Equal(t, 2, cfg.Aggregate.Concurrency)
	assert.Equal(t, 20, cfg.Aggregate.DefaultLimit)
	assert.Equal(t, []string{"golang"}, keys(cfg.Categories))

	cat := cfg.Catalog()
	assert.Equal(t, []string{"golang"}, cat.Categories())
	assert.Equal(t, "Go", cat.Label("golang"))
	urls, err := cat.Resolve("golang")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://go.dev/blog/feed.atom"}, urls)
}

func TestLoadWithoutCategoriesUsesStockSet(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[log]\nlevel = \"debug\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Len(t, cfg.Categories, 4)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "[server\naddr = "))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[fetch]\ntimeout = \"soon\"\n"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ROUNDUP_ADDR", ":9999")
	t.Setenv("ROUNDUP_LOG_LEVEL", "warn")
	t.Setenv("ROUNDUP_FETCH_TIMEOUT", "750ms")
	t.Setenv("ROUNDUP_CONCURRENCY", "-1")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 750*time.Millisecond, cfg.Fetch.Timeout.Duration)
	assert.Equal(t, -1, cfg.Aggregate.Concurrency)
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv("ROUNDUP_CONCURRENCY", "many")
	assert.Error(t, DefaultConfig().ApplyEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero timeout", func(c *Config) { c.Fetch.Timeout = Duration{} }, "fetch.timeout"},
		{"zero body cap", func(c *Config) { c.Fetch.MaxBodyBytes = 0 }, "max_body_bytes"},
		{"negative limit", func(c *Config) { c.Aggregate.DefaultLimit = -1 }, "default_limit"},
		{"no categories", func(c *Config) { c.Categories = nil }, "no categories"},
		{"empty feeds", func(c *Config) {
			c.Categories["empty"] = CategoryConfig{Feeds: []string{""}}
		}, `"empty" has no feeds`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
