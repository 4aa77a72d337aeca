// Package config loads pdf2quiz settings from defaults, an optional YAML
// file, a .env file and PDF2QUIZ_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every override variable, e.g. PDF2QUIZ_GEMINI_MODEL.
const EnvPrefix = "PDF2QUIZ"

// Backend names accepted by gemini.backend.
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// Gemini configures the generative-language client.
type Gemini struct {
	// Backend selects the transport: rest (hand-built requests) or sdk (google.golang.org/genai).
	Backend string `mapstructure:"backend" validate:"oneof=rest sdk"`
	Model   string `mapstructure:"model" validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// APIKeyEnv names the variable holding the API key. The key itself is
	// never stored in config; it is read from the environment on every call.
	APIKeyEnv       string        `mapstructure:"api_key_env" validate:"required"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout" validate:"gte=0"`
	// AuditTimeout of zero leaves the HTTP client without a deadline.
	AuditTimeout time.Duration `mapstructure:"audit_timeout" validate:"gte=0"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" validate:"gte=0"`
}

// Store configures the SQLite question bank.
type Store struct {
	Path string `mapstructure:"path" validate:"required"`
}

// Review configures the spaced-repetition scheduler.
type Review struct {
	Intervals      []time.Duration `mapstructure:"intervals" validate:"min=1,dive,gt=0"`
	MasteredStreak int             `mapstructure:"mastered_streak" validate:"gte=1"`
}

// Log configures the slog handler.
type Log struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Config is the full application configuration.
type Config struct {
	Gemini Gemini `mapstructure:"gemini"`
	Store  Store  `mapstructure:"store"`
	Review Review `mapstructure:"review"`
	Log    Log    `mapstructure:"log"`
}

// SetDefaults registers every key with its default so that environment
// overrides are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("gemini.backend", BackendREST)
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("gemini.generate_timeout", 300*time.Second)
	v.SetDefault("gemini.audit_timeout", time.Duration(0))
	v.SetDefault("gemini.probe_timeout", 10*time.Second)
	v.SetDefault("store.path", "pdf2quiz.db")
	v.SetDefault("review.intervals", []string{"24h", "72h", "168h", "336h"})
	v.SetDefault("review.mastered_streak", 5)
	v.SetDefault("log.level", "info")
}

// Default returns the configuration with no file or environment applied.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load builds the configuration. When path is empty it looks for
// pdf2quiz.yaml in the working directory and in ~/.config/pdf2quiz/; a
// missing file is not an error. A .env file in the working directory is
// loaded into the process environment first.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pdf2quiz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pdf2quiz"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
