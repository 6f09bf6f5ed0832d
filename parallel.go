package lingo

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// lookupConcurrency caps the goroutines used for parallel cache lookups.
// Only remote caches benefit from parallelism, and they are I/O bound.
const lookupConcurrency = 8

// lookup resolves keys against the cache, concurrently once the batch is
// large enough for the round trips to dominate.
func (t *Translator) lookup(keys []string) map[string]string {
	if t.cache == nil || len(keys) == 0 {
		return nil
	}
	if len(keys) < t.parallelThreshold {
		hits := make(map[string]string, len(keys))
		for _, key := range keys {
			if v, ok := t.cache.Get(key); ok {
				hits[key] = v
			}
		}
		return hits
	}

	return parallelLookup(t.cache, keys)
}

// parallelLookup performs cache lookups concurrently and returns the hits.
func parallelLookup(cache TranslationCache, keys []string) map[string]string {
	var mu sync.Mutex
	hits := make(map[string]string, len(keys))

	g := new(errgroup.Group)
	g.SetLimit(lookupConcurrency)

	for _, key := range keys {
		key := key
		g.Go(func() error {
			if v, ok := cache.Get(key); ok {
				mu.Lock()
				hits[key] = v
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()

	return hits
}
