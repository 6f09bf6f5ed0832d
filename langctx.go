package lingo

import (
	"sync"

	"github.com/rs/zerolog"
)

// LanguageContext is the single source of truth for the active UI language.
// It seeds from an explicit override, a persisted preference, or the client
// locale, persists every change, and notifies subscribers synchronously.
type LanguageContext struct {
	mu      sync.RWMutex
	current Language
	store   PreferenceStore
	subs    map[int]func(Language)
	nextID  int
	logger  zerolog.Logger
}

type langContextConfig struct {
	override       string
	store          PreferenceStore
	acceptLanguage string
	hasAccept      bool
	def            Language
	logger         zerolog.Logger
}

// LanguageContextOption configures a LanguageContext.
type LanguageContextOption func(*langContextConfig)

// WithOverride seeds from an explicit language override (for example a URL
// query parameter). It takes precedence over everything else when valid.
func WithOverride(code string) LanguageContextOption {
	return func(c *langContextConfig) {
		c.override = code
	}
}

// WithPreferenceStore sets the durable store read at startup and written on
// every language change.
func WithPreferenceStore(store PreferenceStore) LanguageContextOption {
	return func(c *langContextConfig) {
		c.store = store
	}
}

// WithAcceptLanguage seeds from a client Accept-Language header when no
// override or persisted preference is available.
func WithAcceptLanguage(header string) LanguageContextOption {
	return func(c *langContextConfig) {
		c.acceptLanguage = header
		c.hasAccept = true
	}
}

// WithDefaultLanguage sets the fallback language (DefaultLanguage otherwise).
func WithDefaultLanguage(lang Language) LanguageContextOption {
	return func(c *langContextConfig) {
		c.def = lang
	}
}

// WithContextLogger sets the logger for preference-store failures.
func WithContextLogger(logger zerolog.Logger) LanguageContextOption {
	return func(c *langContextConfig) {
		c.logger = logger
	}
}

// NewLanguageContext creates a LanguageContext seeded in priority order from
// an override, the persisted preference, the detected client locale, and the
// configured default.
func NewLanguageContext(opts ...LanguageContextOption) *LanguageContext {
	cfg := langContextConfig{
		def:    DefaultLanguage,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	lc := &LanguageContext{
		store:  cfg.store,
		subs:   make(map[int]func(Language)),
		logger: cfg.logger,
	}
	lc.current = seedLanguage(cfg)

	return lc
}

func seedLanguage(cfg langContextConfig) Language {
	if cfg.override != "" {
		if lang, err := ParseLanguage(cfg.override); err == nil {
			return lang
		}
	}

	if cfg.store != nil {
		if lang, ok := cfg.store.Load(); ok {
			if parsed, err := ParseLanguage(string(lang)); err == nil {
				return parsed
			}
		}
	}

	if cfg.hasAccept {
		return MatchAcceptLanguage(cfg.acceptLanguage)
	}

	return cfg.def
}

// Current returns the active language.
func (lc *LanguageContext) Current() Language {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.current
}

// SetLanguage switches the active language. An unsupported code is rejected
// before any state mutation: memory, store, and subscribers are untouched and
// an UnsupportedLanguageError is returned. On success the preference is
// persisted and all subscribers are notified before SetLanguage returns.
func (lc *LanguageContext) SetLanguage(lang Language) error {
	parsed, err := ParseLanguage(string(lang))
	if err != nil {
		return err
	}

	lc.mu.Lock()
	lc.current = parsed
	subs := make([]func(Language), 0, len(lc.subs))
	for _, fn := range lc.subs {
		subs = append(subs, fn)
	}
	lc.mu.Unlock()

	if lc.store != nil {
		if err := lc.store.Save(parsed); err != nil {
			lc.logger.Warn().Err(err).Str("language", string(parsed)).
				Msg("failed to persist language preference")
		}
	}

	// Notify outside the lock so subscribers can read Current.
	for _, fn := range subs {
		fn(parsed)
	}

	return nil
}

// Subscribe registers fn to run on every language change. The returned
// function cancels the subscription.
func (lc *LanguageContext) Subscribe(fn func(Language)) (cancel func()) {
	lc.mu.Lock()
	id := lc.nextID
	lc.nextID++
	lc.subs[id] = fn
	lc.mu.Unlock()

	return func() {
		lc.mu.Lock()
		delete(lc.subs, id)
		lc.mu.Unlock()
	}
}

// IsRightToLeft reports whether the active language renders right-to-left.
func (lc *LanguageContext) IsRightToLeft() bool {
	return IsRTL(string(lc.Current()))
}

// Direction returns "rtl" or "ltr" for the active language.
func (lc *LanguageContext) Direction() string {
	return GetDirection(string(lc.Current()))
}
