package lingo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// mockProvider is a controllable provider for testing.
type mockProvider struct {
	mu           sync.Mutex
	translations map[string]string
	callCount    int
	lastTexts    []string
	err          error
	delay        time.Duration
	slowCalls    int // number of leading calls that sleep for delay
	shortCount   bool
	detectLang   string
	detectCalls  int
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		translations: map[string]string{
			"Hello":                  "Hej",
			"Book a lesson":          "Boka en lektion",
			"Our instructors":        "Våra instruktörer",
			"Welcome to our school.": "Välkommen till vår skola.",
		},
		detectLang: "en",
	}
}

func (m *mockProvider) Translate(ctx context.Context, req Request) ([]Translation, error) {
	m.mu.Lock()
	m.callCount++
	m.lastTexts = append([]string(nil), req.Texts...)
	err := m.err
	slow := m.slowCalls == 0 || m.callCount <= m.slowCalls
	short := m.shortCount
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 && slow {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}

	results := make([]Translation, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.translations[text]; ok {
			results[i] = Translation{Text: translation}
		} else {
			results[i] = Translation{Text: "[" + text + "]"}
		}
	}

	if short && len(results) > 0 {
		results = results[:len(results)-1]
	}

	return results, nil
}

func (m *mockProvider) Detect(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detectCalls++
	return m.detectLang, nil
}

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *mockProvider) last() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTexts
}

// mockCache is a simple cache for testing.
type mockCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]string)}
}

func (c *mockCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.data[key]
	return val, ok
}

func (c *mockCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mockCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func TestTranslateOne_CacheHit(t *testing.T) {
	provider := newMockProvider()
	cache := newMockCache()
	tr := New(provider, WithCache(cache))

	first := tr.TranslateOne(context.Background(), "Hello", Swedish)
	second := tr.TranslateOne(context.Background(), "Hello", Swedish)

	if first != "Hej" || second != "Hej" {
		t.Errorf("got %q, %q, want Hej twice", first, second)
	}
	if got := provider.calls(); got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}
}

func TestTranslateOne_BlankText(t *testing.T) {
	provider := newMockProvider()
	cache := newMockCache()
	tr := New(provider, WithCache(cache))

	for _, text := range []string{"", "   ", "\n\t"} {
		if got := tr.TranslateOne(context.Background(), text, Swedish); got != text {
			t.Errorf("TranslateOne(%q) = %q, want unchanged", text, got)
		}
	}

	if got := provider.calls(); got != 0 {
		t.Errorf("provider called %d times, want 0", got)
	}
	if cache.len() != 0 {
		t.Errorf("cache has %d entries, want 0", cache.len())
	}
}

func TestTranslateOne_ProviderFailure(t *testing.T) {
	provider := newMockProvider()
	provider.err = &ProviderError{Message: "boom"}
	cache := newMockCache()
	tr := New(provider, WithCache(cache))

	if got := tr.TranslateOne(context.Background(), "Hello", Swedish); got != "Hello" {
		t.Errorf("got %q, want original text", got)
	}
	if cache.len() != 0 {
		t.Error("failed translation must not be cached")
	}
}

func TestTranslateOne_SkipsSameSource(t *testing.T) {
	provider := newMockProvider()
	tr := New(provider, WithSourceLang("en"))

	if got := tr.TranslateOne(context.Background(), "Hello", English); got != "Hello" {
		t.Errorf("got %q, want original text", got)
	}
	if provider.calls() != 0 {
		t.Error("same-language translation must not reach the provider")
	}
}

func TestTranslateOne_CoalescesConcurrentRequests(t *testing.T) {
	provider := newMockProvider()
	provider.delay = 50 * time.Millisecond
	tr := New(provider, WithCache(newMockCache()))

	const callers = 10
	results := make([]string, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tr.TranslateOne(context.Background(), "Hello", Swedish)
		}(i)
	}
	wg.Wait()

	if got := provider.calls(); got != 1 {
		t.Errorf("provider called %d times, want 1 (coalesced)", got)
	}
	for i, res := range results {
		if res != "Hej" {
			t.Errorf("caller %d got %q, want Hej", i, res)
		}
	}
}

func TestTranslateOne_RetriesOnTimeout(t *testing.T) {
	provider := newMockProvider()
	provider.delay = 100 * time.Millisecond
	provider.slowCalls = 1
	tr := New(provider, WithTimeout(30*time.Millisecond))

	if got := tr.TranslateOne(context.Background(), "Hello", Swedish); got != "Hej" {
		t.Errorf("got %q, want Hej after timeout retry", got)
	}
	if got := provider.calls(); got != 2 {
		t.Errorf("provider called %d times, want 2", got)
	}
}

func TestTranslateBatch_PartitionAndOrder(t *testing.T) {
	provider := newMockProvider()
	cache := newMockCache()
	tr := New(provider, WithCache(cache))

	// Warm the cache with one entry.
	if got := tr.TranslateOne(context.Background(), "Book a lesson", Swedish); got != "Boka en lektion" {
		t.Fatalf("warmup got %q", got)
	}

	texts := []string{"Hello", "  ", "Book a lesson", "Hello", "Our instructors"}
	got := tr.TranslateBatch(context.Background(), texts, Swedish)

	want := []string{"Hej", "  ", "Boka en lektion", "Hej", "Våra instruktörer"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// One warmup call plus one batch call for only the uncached, distinct texts.
	if calls := provider.calls(); calls != 2 {
		t.Errorf("provider called %d times, want 2", calls)
	}
	last := provider.last()
	if len(last) != 2 || last[0] != "Hello" || last[1] != "Our instructors" {
		t.Errorf("batch call sent %v, want [Hello Our instructors]", last)
	}
}

func TestTranslateBatch_FailureReturnsOriginals(t *testing.T) {
	provider := newMockProvider()
	provider.err = errors.New("provider down")
	cache := newMockCache()
	tr := New(provider, WithCache(cache))

	texts := []string{"Hello", "Our instructors"}
	got := tr.TranslateBatch(context.Background(), texts, Swedish)

	for i := range texts {
		if got[i] != texts[i] {
			t.Errorf("result[%d] = %q, want original %q", i, got[i], texts[i])
		}
	}
	if cache.len() != 0 {
		t.Error("no cache entries expected after failure")
	}
}

func TestTranslateBatch_CountMismatchReturnsOriginals(t *testing.T) {
	provider := newMockProvider()
	provider.shortCount = true
	tr := New(provider, WithCache(newMockCache()))

	texts := []string{"Hello", "Our instructors"}
	got := tr.TranslateBatch(context.Background(), texts, Swedish)

	for i := range texts {
		if got[i] != texts[i] {
			t.Errorf("result[%d] = %q, want original %q", i, got[i], texts[i])
		}
	}
}

func TestTranslateBatch_Empty(t *testing.T) {
	tr := New(newMockProvider())

	if got := tr.TranslateBatch(context.Background(), nil, Swedish); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestTranslateBatch_JoinsInflightSingle(t *testing.T) {
	provider := newMockProvider()
	provider.delay = 50 * time.Millisecond
	tr := New(provider, WithCache(newMockCache()))

	var wg sync.WaitGroup
	var single string
	wg.Add(1)
	go func() {
		defer wg.Done()
		single = tr.TranslateOne(context.Background(), "Hello", Swedish)
	}()

	// Give the single call time to become the in-flight leader.
	time.Sleep(10 * time.Millisecond)

	batch := tr.TranslateBatch(context.Background(), []string{"Hello", "Our instructors"}, Swedish)
	wg.Wait()

	if single != "Hej" || batch[0] != "Hej" || batch[1] != "Våra instruktörer" {
		t.Errorf("got single=%q batch=%v", single, batch)
	}

	// The batch must not re-request the key the single call already owns.
	if calls := provider.calls(); calls != 2 {
		t.Errorf("provider called %d times, want 2", calls)
	}
	last := provider.last()
	if len(last) != 1 || last[0] != "Our instructors" {
		t.Errorf("batch call sent %v, want [Our instructors]", last)
	}
}

func TestDetect(t *testing.T) {
	provider := newMockProvider()
	provider.detectLang = "sv"
	tr := New(provider)

	got, err := tr.Detect(context.Background(), "Hej världen")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if got != "sv" {
		t.Errorf("got %q, want sv", got)
	}

	if _, err := tr.Detect(context.Background(), "   "); err == nil {
		t.Error("blank text should fail validation")
	}
}
