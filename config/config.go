// Package config reads the server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"ringkasan/pkg/validation"
)

const (
	DefaultAnthropicModel   = "claude-sonnet-4-20250514"
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultFallbackModel    = "gpt-4o-mini"
	DefaultFallbackBaseURL  = "https://api.openai.com"
)

type Config struct {
	Port     int    `env:"PORT" validate:"min=1,max=65535"`
	AppEnv   string `env:"APP_ENV" validate:"oneof=development production test"`
	LogLevel string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	JWTSecret      string  `env:"JWT_SECRET"`
	CORSOrigins    string  `env:"CORS_ORIGINS"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" validate:"gte=0"`

	RetentionCap   int    `env:"RETENTION_CAP" validate:"min=1"`
	CleanupKeep    int    `env:"CLEANUP_KEEP" validate:"gte=0"`
	ExportDir      string `env:"EXPORT_DIR" validate:"required"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" validate:"min=1"`

	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel   string `env:"ANTHROPIC_MODEL"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL" validate:"url"`
	FallbackAPIKey   string `env:"FALLBACK_API_KEY"`
	FallbackModel    string `env:"FALLBACK_MODEL"`
	FallbackBaseURL  string `env:"FALLBACK_BASE_URL" validate:"url"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" validate:"min=1,max=65535"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" validate:"required_with=SMTPHost"`
}

// Load reads envFile into the process environment, then builds the config
// from the environment. A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to load %s: %w", envFile, err)
		}
	}

	var (
		cfg Config
		p   parser
	)
	cfg.Port = p.integer("PORT", 8080)
	cfg.AppEnv = p.str("APP_ENV", "development")
	cfg.LogLevel = strings.ToLower(p.str("LOG_LEVEL", "info"))

	cfg.JWTSecret = p.str("JWT_SECRET", "")
	cfg.CORSOrigins = p.str("CORS_ORIGINS", "*")
	cfg.RateLimitRPS = p.number("RATE_LIMIT_RPS", 10)
	cfg.RateLimitBurst = p.integer("RATE_LIMIT_BURST", 20)

	cfg.RetentionCap = p.integer("RETENTION_CAP", 50)
	cfg.CleanupKeep = p.integer("CLEANUP_KEEP", 10)
	cfg.ExportDir = p.str("EXPORT_DIR", filepath.Join(os.TempDir(), "ringkasan-exports"))
	cfg.MaxUploadBytes = int64(p.integer("MAX_UPLOAD_BYTES", 10<<20))

	cfg.AnthropicAPIKey = p.str("ANTHROPIC_API_KEY", "")
	cfg.AnthropicModel = p.str("ANTHROPIC_MODEL", DefaultAnthropicModel)
	cfg.AnthropicBaseURL = p.str("ANTHROPIC_BASE_URL", DefaultAnthropicBaseURL)
	cfg.FallbackAPIKey = p.str("FALLBACK_API_KEY", "")
	cfg.FallbackModel = p.str("FALLBACK_MODEL", DefaultFallbackModel)
	cfg.FallbackBaseURL = p.str("FALLBACK_BASE_URL", DefaultFallbackBaseURL)

	cfg.SMTPHost = p.str("SMTP_HOST", "")
	cfg.SMTPPort = p.integer("SMTP_PORT", 587)
	cfg.SMTPUsername = p.str("SMTP_USERNAME", "")
	cfg.SMTPPassword = p.str("SMTP_PASSWORD", "")
	cfg.SMTPFrom = p.str("SMTP_FROM", "")

	if p.err != nil {
		return nil, p.err
	}
	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Production reports whether server-side error details must be redacted.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v)
		return def
	}
	return n
}

func (p *parser) number(key string, def float64) float64 {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v)
		return def
	}
	return f
}

func (p *parser) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("config: %s=%q is not a number", key, value)
	}
}
