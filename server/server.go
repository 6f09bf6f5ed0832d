// Package server implements the proxy API in front of the translation
// provider. It is the only place the provider credential lives; clients talk
// to these endpoints and never to the provider directly.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/drivelane/lingo"
)

// Server handles the /translate and /language endpoints.
type Server struct {
	cfg         Config
	provider    lingo.Provider
	defaultLang lingo.Language
	glossary    *lingo.Glossary
	logger      zerolog.Logger
	limiter     *rate.Limiter
	detects     singleflight.Group
}

// New creates a Server. cfg.DefaultLanguage must already be validated
// (LoadConfig does this).
func New(cfg Config, provider lingo.Provider, logger zerolog.Logger) *Server {
	defaultLang, err := lingo.ParseLanguage(cfg.DefaultLanguage)
	if err != nil {
		defaultLang = lingo.DefaultLanguage
	}

	return &Server{
		cfg:         cfg,
		provider:    provider,
		defaultLang: defaultLang,
		logger:      logger,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}
}

// SetGlossary attaches site-specific translation guidance forwarded with
// every provider request.
func (s *Server) SetGlossary(g *lingo.Glossary) {
	s.glossary = g
}

// Handler returns the HTTP handler for the proxy API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)

	r.Route(s.cfg.BasePath, func(r chi.Router) {
		r.Use(rateLimit(s.limiter))
		r.Post("/translate", s.handleTranslate)
		r.Get("/translate", s.handleDetect)
		r.Post("/language", s.handleSetLanguage)
		r.Get("/language", s.handleGetLanguage)
	})

	return r
}

// Run serves the proxy API until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info().Str("addr", s.cfg.Addr).Msg("proxy API listening")

	var runErr error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return runErr
	}

	s.logger.Info().Msg("proxy API stopped")

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": lingo.FullVersion()})
}
