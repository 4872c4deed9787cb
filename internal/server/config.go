package server

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds the demo server settings. Every field can be set from the
// environment.
type Config struct {
	Addr string `env:"GOVUK_FORMS_ADDR,default=:8080"`
	// TemplatesDir overrides embedded templates and is watched for changes.
	TemplatesDir   string        `env:"GOVUK_FORMS_TEMPLATES_DIR"`
	ReloadDebounce time.Duration `env:"GOVUK_FORMS_RELOAD_DEBOUNCE,default=250ms"`
	Theme          string        `env:"GOVUK_FORMS_THEME"`
	ThemeVariant   string        `env:"GOVUK_FORMS_THEME_VARIANT"`
	MarkdownHints  bool          `env:"GOVUK_FORMS_MARKDOWN_HINTS,default=false"`
	CSRFCookie     string        `env:"GOVUK_FORMS_CSRF_COOKIE,default=csrf_token"`
	SecureCookies  bool          `env:"GOVUK_FORMS_SECURE_COOKIES,default=false"`
	MaxMemory      int64         `env:"GOVUK_FORMS_MAX_MEMORY,default=33554432"`
	ShutdownGrace  time.Duration `env:"GOVUK_FORMS_SHUTDOWN_GRACE,default=5s"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		ReloadDebounce: 250 * time.Millisecond,
		CSRFCookie:     "csrf_token",
		MaxMemory:      32 << 20,
		ShutdownGrace:  5 * time.Second,
	}
}

// LoadConfig reads envFiles into the environment, missing files are skipped,
// then decodes Config from it.
func LoadConfig(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if file == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("server: load %s: %w", file, err)
		}
	}

	cfg := DefaultConfig()
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("server: decode environment: %w", err)
	}
	return cfg.normalize(), nil
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.ReloadDebounce <= 0 {
		c.ReloadDebounce = def.ReloadDebounce
	}
	if c.CSRFCookie == "" {
		c.CSRFCookie = def.CSRFCookie
	}
	if c.MaxMemory <= 0 {
		c.MaxMemory = def.MaxMemory
	}
	if c.ShutdownGrace <= 0 {
		c.ShutdownGrace = def.ShutdownGrace
	}
	return c
}
