package provider

import (
	"context"
	"strings"

	"github.com/drivelane/lingo"
	"github.com/drivelane/lingo/cache"
)

// CachedProvider decorates a Provider with a translation cache. Hits skip the
// inner provider entirely; misses go out deduplicated in one call and are
// written back per item. Errors propagate unchanged — degradation policy
// belongs to the caller, and failed results are never cached.
type CachedProvider struct {
	provider Provider
	cache    cache.TranslationCache
}

// NewCachedProvider wraps provider with c.
func NewCachedProvider(provider Provider, c cache.TranslationCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    c,
	}
}

// Translate implements Provider with read-through caching.
func (p *CachedProvider) Translate(ctx context.Context, req Request) ([]Translation, error) {
	out := make([]Translation, len(req.Texts))

	var missTexts []string
	missAt := make(map[string][]int)
	var missKeys []string

	for i, text := range req.Texts {
		if strings.TrimSpace(text) == "" {
			out[i] = Translation{Text: text}
			continue
		}

		key := lingo.CacheKey(req.SourceLang, req.TargetLang, text)
		if cached, ok := p.cache.Get(key); ok {
			out[i] = Translation{Text: cached}
			continue
		}

		if _, seen := missAt[key]; !seen {
			missKeys = append(missKeys, key)
			missTexts = append(missTexts, text)
		}
		missAt[key] = append(missAt[key], i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	sub := req
	sub.Texts = missTexts

	results, err := p.provider.Translate(ctx, sub)
	if err != nil {
		return nil, err
	}
	if len(results) != len(missTexts) {
		return nil, &lingo.CountMismatchError{
			Expected: len(missTexts),
			Got:      len(results),
		}
	}

	for j, key := range missKeys {
		_ = p.cache.Set(key, results[j].Text) // Ignore cache write errors
		for _, i := range missAt[key] {
			out[i] = results[j]
		}
	}

	return out, nil
}

// Detect implements Provider; detection results are not cached.
func (p *CachedProvider) Detect(ctx context.Context, text string) (string, error) {
	return p.provider.Detect(ctx, text)
}

// Verify CachedProvider implements Provider
var _ Provider = (*CachedProvider)(nil)
