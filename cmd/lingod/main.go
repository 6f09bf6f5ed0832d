// Command lingod serves the translation proxy API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/drivelane/lingo"
	"github.com/drivelane/lingo/cache"
	"github.com/drivelane/lingo/provider"
	"github.com/drivelane/lingo/server"
)

// appConfig holds the daemon wiring that is not part of the HTTP config.
type appConfig struct {
	OpenAIKey    string `env:"OPENAI_API_KEY,required"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	RedisURL     string `env:"LINGO_REDIS_URL"`
	CacheTTL     int    `env:"LINGO_CACHE_TTL" envDefault:"0"`
	ProviderRPM  int    `env:"LINGO_PROVIDER_RPM" envDefault:"120"`
	GlossaryFile string `env:"LINGO_GLOSSARY_FILE"`
	CacheSeed    string `env:"LINGO_CACHE_SEED"`
	LogLevel     string `env:"LINGO_LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LINGO_LOG_FORMAT" envDefault:"json"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", lingo.Name, lingo.FullVersion())
		return nil
	}

	// The .env file is optional.
	_ = godotenv.Load()

	var app appConfig
	if err := env.Parse(&app); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(app)
	if err != nil {
		return err
	}

	var store cache.TranslationCache
	if app.RedisURL != "" {
		rc, rerr := cache.NewRedisCache(cache.RedisConfig{
			URL: app.RedisURL,
			TTL: app.CacheTTL,
		})
		if rerr != nil {
			return fmt.Errorf("connecting to redis: %w", rerr)
		}
		defer rc.Close()
		store = rc
		logger.Info().Msg("using redis translation cache")
	} else {
		store = cache.NewInMemoryCache(app.CacheTTL)
		logger.Info().Msg("using in-memory translation cache")
	}

	if app.CacheSeed != "" {
		result, serr := cache.ImportFromFile(store, app.CacheSeed)
		if serr != nil {
			logger.Warn().Err(serr).Str("path", app.CacheSeed).Msg("cache seed import failed")
		} else {
			logger.Info().Int("imported", result.Imported).Int("failed", result.Failed).
				Msg("cache seeded from snapshot")
		}
	}

	glossary, err := lingo.LoadGlossary(app.GlossaryFile)
	if err != nil {
		return err
	}

	var p lingo.Provider = provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey: app.OpenAIKey,
		Model:  app.OpenAIModel,
	})
	p = lingo.NewRetryableProvider(p, lingo.DefaultRetryConfig())
	p = lingo.NewRateLimitedProvider(p, lingo.RateLimitConfig{RequestsPerMinute: app.ProviderRPM})
	p = provider.NewCachedProvider(p, store)

	srv := server.New(cfg, p, logger)
	srv.SetGlossary(glossary)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func newLogger(app appConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(app.LogLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", app.LogLevel, err)
	}

	var logger zerolog.Logger
	if app.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger(), nil
}
