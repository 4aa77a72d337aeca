package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into a fresh directory so no stray pdf2quiz.yaml or .env is found.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendREST, cfg.Gemini.Backend)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Gemini.BaseURL)
	assert.Equal(t, "GEMINI_API_KEY", cfg.Gemini.APIKeyEnv)
	assert.Equal(t, 300*time.Second, cfg.Gemini.GenerateTimeout)
	assert.Zero(t, cfg.Gemini.AuditTimeout)
	assert.Equal(t, 10*time.Second, cfg.Gemini.ProbeTimeout)
	assert.Equal(t, "pdf2quiz.db", cfg.Store.Path)
	assert.Equal(t, []time.Duration{24 * time.Hour, 72 * time.Hour, 168 * time.Hour, 336 * time.Hour}, cfg.Review.Intervals)
	assert.Equal(t, 5, cfg.Review.MasteredStreak)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.Equal(t, cfg, Default())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdir(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gemini:
  backend: sdk
  model: gemini-2.5-pro
  generate_timeout: 90s
store:
  path: /tmp/bank.db
`), 0o644))
	t.Setenv("PDF2QUIZ_LOG_LEVEL", "debug")
	t.Setenv("PDF2QUIZ_GEMINI_MODEL", "gemini-2.5-flash")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSDK, cfg.Gemini.Backend)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model, "env overrides file")
	assert.Equal(t, 90*time.Second, cfg.Gemini.GenerateTimeout)
	assert.Equal(t, "/tmp/bank.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PDF2QUIZ_STORE_PATH=from-dotenv.db\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PDF2QUIZ_STORE_PATH") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.Store.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := chdir(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown backend", func(c *Config) { c.Gemini.Backend = "grpc" }, "Backend"},
		{"empty model", func(c *Config) { c.Gemini.Model = "" }, "Model"},
		{"negative timeout", func(c *Config) { c.Gemini.ProbeTimeout = -time.Second }, "ProbeTimeout"},
		{"no intervals", func(c *Config) { c.Review.Intervals = nil }, "Intervals"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	require.NoError(t, Default().Validate())
}
