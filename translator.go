package lingo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// defaultTimeout bounds every outbound provider call. A slow provider must
// degrade to original text, never hang a render path.
const defaultTimeout = 10 * time.Second

// Translator is the client-side translation engine. It memoizes results in an
// injected cache, coalesces concurrent requests for the same key into one
// provider call, and degrades to the original text on any failure.
type Translator struct {
	provider          Provider
	cache             TranslationCache
	sourceLang        string
	excludedTerms     []string
	contextHint       string
	glossary          map[string]string
	timeout           time.Duration
	retryOnTimeout    bool
	parallelThreshold int
	logger            zerolog.Logger

	inflight *inflightGroup
	detects  singleflight.Group
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithSourceLang fixes the source language instead of auto-detecting it.
func WithSourceLang(lang string) TranslatorOption {
	return func(t *Translator) {
		t.sourceLang = lang
	}
}

// WithTimeout bounds each outbound provider call. Zero disables the bound.
func WithTimeout(d time.Duration) TranslatorOption {
	return func(t *Translator) {
		t.timeout = d
	}
}

// WithTimeoutRetry controls the single retry after a timed-out provider call.
func WithTimeoutRetry(enabled bool) TranslatorOption {
	return func(t *Translator) {
		t.retryOnTimeout = enabled
	}
}

// WithExcludedTerms sets terms that should not be translated.
func WithExcludedTerms(terms []string) TranslatorOption {
	return func(t *Translator) {
		t.excludedTerms = terms
	}
}

// WithContextHint sets the global translation context passed to the provider.
func WithContextHint(hint string) TranslatorOption {
	return func(t *Translator) {
		t.contextHint = hint
	}
}

// WithGlossary sets preferred translations for specific phrases.
func WithGlossary(glossary map[string]string) TranslatorOption {
	return func(t *Translator) {
		t.glossary = glossary
	}
}

// WithLogger sets the logger used to record degraded translations.
func WithLogger(logger zerolog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithParallelThreshold sets the minimum number of distinct keys in a batch
// before cache lookups run concurrently.
func WithParallelThreshold(n int) TranslatorOption {
	return func(t *Translator) {
		t.parallelThreshold = n
	}
}

// New creates a Translator backed by the given provider.
func New(provider Provider, opts ...TranslatorOption) *Translator {
	t := &Translator{
		provider:          provider,
		sourceLang:        SourceAuto,
		timeout:           defaultTimeout,
		retryOnTimeout:    true,
		parallelThreshold: 5,
		logger:            zerolog.Nop(),
		inflight:          newInflightGroup(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// TranslateOne translates a single string into target. Empty or
// whitespace-only input is returned unchanged with no I/O. On any failure the
// original text is returned; the error is logged, never propagated.
func (t *Translator) TranslateOne(ctx context.Context, text string, target Language) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if t.skip(target) {
		return text
	}

	key := CacheKey(t.sourceLang, string(target), text)
	if t.cache != nil {
		if cached, ok := t.cache.Get(key); ok {
			return cached
		}
	}

	c, leader := t.inflight.begin(key)
	if !leader {
		val, err := t.inflight.wait(ctx, c)
		if err != nil {
			t.logDegraded(err, target, 1)
			return text
		}
		return val
	}

	results, err := t.callProvider(ctx, []string{text}, target)
	if err != nil {
		t.inflight.finish(key, c, "", err)
		t.logDegraded(err, target, 1)
		return text
	}

	translated := results[0].Text
	t.store(key, translated)
	t.inflight.finish(key, c, translated, nil)

	return translated
}

// TranslateBatch translates texts into target, preserving order. Cached and
// blank entries never reach the provider; the remaining distinct entries go
// out in a single provider call. The result is atomic from the caller's
// perspective: on any failure the original input values are returned
// unchanged, never a partial merge.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, target Language) []string {
	out := make([]string, len(texts))
	copy(out, texts)

	if len(texts) == 0 || t.skip(target) {
		return out
	}

	// Partition into cached and pending, deduplicating by key.
	keyAt := make([]string, len(texts))
	positions := make(map[string][]int)
	var distinct []string

	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		key := CacheKey(t.sourceLang, string(target), text)
		keyAt[i] = key
		if _, seen := positions[key]; !seen {
			distinct = append(distinct, key)
		}
		positions[key] = append(positions[key], i)
	}

	hits := t.lookup(distinct)
	resolved := make(map[string]string, len(distinct))

	type pending struct {
		key string
		c   *call
	}
	var ledKeys []string
	var ledTexts []string
	var ledCalls []*call
	var joined []pending

	for _, key := range distinct {
		if v, ok := hits[key]; ok {
			resolved[key] = v
			continue
		}
		c, leader := t.inflight.begin(key)
		if leader {
			ledKeys = append(ledKeys, key)
			ledTexts = append(ledTexts, texts[positions[key][0]])
			ledCalls = append(ledCalls, c)
		} else {
			joined = append(joined, pending{key: key, c: c})
		}
	}

	if len(ledTexts) > 0 {
		results, err := t.callProvider(ctx, ledTexts, target)
		if err != nil {
			for i, key := range ledKeys {
				t.inflight.finish(key, ledCalls[i], "", err)
			}
			t.logDegraded(err, target, len(texts))
			return originals(texts)
		}

		for i, key := range ledKeys {
			translated := results[i].Text
			t.store(key, translated)
			t.inflight.finish(key, ledCalls[i], translated, nil)
			resolved[key] = translated
		}
	}

	for _, p := range joined {
		val, err := t.inflight.wait(ctx, p.c)
		if err != nil {
			t.logDegraded(err, target, len(texts))
			return originals(texts)
		}
		resolved[p.key] = val
	}

	for i, key := range keyAt {
		if key == "" {
			continue
		}
		if v, ok := resolved[key]; ok {
			out[i] = v
		}
	}

	return out
}

// Detect returns the ISO 639-1 code of the language text is written in.
// Concurrent detections of the same text share one provider call.
func (t *Translator) Detect(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &ValidationError{Field: "text", Message: "must not be empty"}
	}

	v, err, _ := t.detects.Do(HashText(text), func() (any, error) {
		callCtx, cancel := t.callContext(ctx)
		defer cancel()
		return t.provider.Detect(callCtx, text)
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// SourceLang returns the configured source language ("auto" by default).
func (t *Translator) SourceLang() string {
	return t.sourceLang
}

// callProvider issues one provider round trip for texts, bounded by the
// configured timeout, with a single retry after a timeout.
func (t *Translator) callProvider(ctx context.Context, texts []string, target Language) ([]Translation, error) {
	req := Request{
		Texts:         texts,
		TargetLang:    string(target),
		SourceLang:    t.sourceLang,
		ExcludedTerms: t.excludedTerms,
		Context:       t.contextHint,
		Glossary:      t.glossary,
	}

	results, err := t.attempt(ctx, req)
	if err != nil && t.retryOnTimeout && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		results, err = t.attempt(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	if len(results) != len(texts) {
		return nil, &CountMismatchError{Expected: len(texts), Got: len(results)}
	}

	return results, nil
}

func (t *Translator) attempt(ctx context.Context, req Request) ([]Translation, error) {
	callCtx, cancel := t.callContext(ctx)
	defer cancel()
	return t.provider.Translate(callCtx, req)
}

func (t *Translator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout > 0 {
		return context.WithTimeout(ctx, t.timeout)
	}
	return context.WithCancel(ctx)
}

// skip reports whether translation into target is a no-op (same as source).
func (t *Translator) skip(target Language) bool {
	if target == "" {
		return true
	}
	if t.sourceLang == "" || t.sourceLang == SourceAuto {
		return false
	}
	return strings.EqualFold(baseLang(t.sourceLang), baseLang(string(target)))
}

func (t *Translator) store(key, value string) {
	if t.cache == nil {
		return
	}
	if err := t.cache.Set(key, value); err != nil {
		t.logger.Debug().Err(err).Msg("translation cache write failed")
	}
}

func (t *Translator) logDegraded(err error, target Language, count int) {
	t.logger.Warn().
		Err(err).
		Str("target", string(target)).
		Int("texts", count).
		Msg("translation degraded to original text")
}

func originals(texts []string) []string {
	out := make([]string, len(texts))
	copy(out, texts)
	return out
}

// baseLang extracts the base language code (e.g., "sv" from "sv_SE").
func baseLang(lang string) string {
	base := strings.Split(lang, "_")[0]
	base = strings.Split(base, "-")[0]
	return strings.ToLower(base)
}
