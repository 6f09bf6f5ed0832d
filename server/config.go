package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/drivelane/lingo"
)

// Cookie contract for the language preference.
const (
	// LanguageCookie is the cookie holding the persisted language preference.
	LanguageCookie = "language"

	// languageCookieMaxAge keeps the preference for one year.
	languageCookieMaxAge = 31536000
)

// Config holds the proxy API configuration, loaded from the environment.
type Config struct {
	Addr            string        `env:"LINGO_ADDR" envDefault:":8080"`
	BasePath        string        `env:"LINGO_BASE_PATH" envDefault:"/api"`
	DefaultLanguage string        `env:"LINGO_DEFAULT_LANGUAGE" envDefault:"en"`
	CookieSecure    bool          `env:"LINGO_COOKIE_SECURE" envDefault:"false"`
	RequestTimeout  time.Duration `env:"LINGO_REQUEST_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"LINGO_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	RatePerSecond   float64       `env:"LINGO_RATE_PER_SECOND" envDefault:"10"`
	RateBurst       int           `env:"LINGO_RATE_BURST" envDefault:"20"`
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing server config: %w", err)
	}

	if !lingo.IsSupported(cfg.DefaultLanguage) {
		return Config{}, fmt.Errorf("LINGO_DEFAULT_LANGUAGE: unsupported language %q", cfg.DefaultLanguage)
	}

	return cfg, nil
}
