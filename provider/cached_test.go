package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/drivelane/lingo"
	"github.com/drivelane/lingo/cache"
)

func TestCachedProvider_ReadThrough(t *testing.T) {
	inner := NewMockProvider()
	store := cache.NewInMemoryCache(0)
	p := NewCachedProvider(inner, store)

	req := Request{Texts: []string{"Hello"}, TargetLang: "sv", SourceLang: "en"}

	first, err := p.Translate(context.Background(), req)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	second, err := p.Translate(context.Background(), req)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if first[0].Text != "Hej" || second[0].Text != "Hej" {
		t.Errorf("got %q, %q", first[0].Text, second[0].Text)
	}
	if inner.Calls() != 1 {
		t.Errorf("inner provider called %d times, want 1", inner.Calls())
	}
	if store.Len() != 1 {
		t.Errorf("cache has %d entries, want 1", store.Len())
	}
}

func TestCachedProvider_PartialHits(t *testing.T) {
	inner := NewMockProvider()
	store := cache.NewInMemoryCache(0)
	p := NewCachedProvider(inner, store)

	// Pre-cache one text.
	key := lingo.CacheKey("en", "sv", "Hello")
	if err := store.Set(key, "Hej"); err != nil {
		t.Fatal(err)
	}

	req := Request{
		Texts:      []string{"Hello", "", "Our instructors", "Hello"},
		TargetLang: "sv",
		SourceLang: "en",
	}

	out, err := p.Translate(context.Background(), req)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	want := []string{"Hej", "", "Våra instruktörer", "Hej"}
	for i := range want {
		if out[i].Text != want[i] {
			t.Errorf("out[%d] = %q, want %q", i, out[i].Text, want[i])
		}
	}

	// Only the distinct uncached text reaches the inner provider.
	if inner.Calls() != 1 {
		t.Errorf("inner provider called %d times, want 1", inner.Calls())
	}
	if got := inner.LastRequest.Texts; len(got) != 1 || got[0] != "Our instructors" {
		t.Errorf("inner provider saw %v, want [Our instructors]", got)
	}
}

func TestCachedProvider_ErrorPropagates(t *testing.T) {
	inner := NewMockProvider()
	inner.Err = errors.New("quota exceeded")
	store := cache.NewInMemoryCache(0)
	p := NewCachedProvider(inner, store)

	_, err := p.Translate(context.Background(), Request{
		Texts:      []string{"Hello"},
		TargetLang: "sv",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if store.Len() != 0 {
		t.Error("failed translations must not be cached")
	}
}

func TestCachedProvider_DetectPassthrough(t *testing.T) {
	inner := NewMockProvider()
	inner.DetectedLang = "sv"
	p := NewCachedProvider(inner, cache.NewInMemoryCache(0))

	got, err := p.Detect(context.Background(), "Hej")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if got != "sv" {
		t.Errorf("got %q, want sv", got)
	}
	if inner.DetectCount != 1 {
		t.Errorf("inner Detect called %d times, want 1", inner.DetectCount)
	}
}
