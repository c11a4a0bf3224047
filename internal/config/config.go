// Package config resolves runtime settings from a .env file, environment
// variables and an optional YAML file, in that order of increasing priority
// for the YAML file and decreasing for the environment (env wins).
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
	"github.com/duynguyendang/pdfdesk/pkg/models"
)

const (
	// ProviderAnthropic selects the Anthropic Claude backend.
	ProviderAnthropic = "anthropic"
	// ProviderGemini selects the Google Gemini backend.
	ProviderGemini = "gemini"
)

// Config holds every runtime setting the binaries need.
type Config struct {
	Provider     string        `yaml:"provider"`
	Model        string        `yaml:"model"`
	Port         string        `yaml:"port"`
	MaxRounds    int           `yaml:"max_rounds"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	MaxPDFBytes  int64         `yaml:"max_pdf_bytes"`

	// API keys are read from the environment only, never from the YAML
	// file, so a checked-in config cannot leak credentials.
	AnthropicAPIKey string `yaml:"-"`
	GeminiAPIKey    string `yaml:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Provider:  ProviderAnthropic,
		Port:      "8000",
		MaxRounds: 6,
	}
}

// Load resolves the configuration. A .env file in the working directory is
// applied first if present; PDFDESK_CONFIG may point at a YAML file; plain
// environment variables override both.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("PDFDESK_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("%w: reading %s: %v", apperrors.ErrConfiguration, path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: parsing %s: %v", apperrors.ErrConfiguration, path, err)
		}
	}

	if v := os.Getenv("PDFDESK_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("PDFDESK_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("PDFDESK_MAX_ROUNDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("%w: PDFDESK_MAX_ROUNDS must be a positive integer, got %q", apperrors.ErrConfiguration, v)
		}
		cfg.MaxRounds = n
	}
	if v := os.Getenv("PDFDESK_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: PDFDESK_FETCH_TIMEOUT: %v", apperrors.ErrConfiguration, err)
		}
		cfg.FetchTimeout = d
	}
	if v := os.Getenv("PDFDESK_MAX_PDF_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("%w: PDFDESK_MAX_PDF_BYTES must be a positive integer, got %q", apperrors.ErrConfiguration, v)
		}
		cfg.MaxPDFBytes = n
	}

	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderGemini:
		return nil
	default:
		return fmt.Errorf("%w: unknown provider %q (want %q or %q)",
			apperrors.ErrConfiguration, c.Provider, ProviderAnthropic, ProviderGemini)
	}
}

// NewModel constructs the model backend selected by the configuration.
// Construction fails fast when the provider's API key is missing.
func (c Config) NewModel(ctx context.Context) (models.Model, error) {
	switch c.Provider {
	case ProviderGemini:
		return models.NewGeminiModel(ctx, models.ResolveModelName(c.Model, models.DefaultGeminiModel))
	default:
		return models.NewAnthropicModel(models.ResolveModelName(c.Model, models.DefaultAnthropicModel))
	}
}
