// Package lingo provides on-demand UI translation with caching and
// language-preference management.
//
// Lingo translates arbitrary UI strings through a translation provider
// (OpenAI, or the bundled proxy API) with per-key request coalescing,
// pluggable caching, and graceful degradation: a failed translation always
// resolves to the original text, never to an error in the render path.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/drivelane/lingo"
//	    "github.com/drivelane/lingo/cache"
//	    "github.com/drivelane/lingo/provider"
//	)
//
//	func main() {
//	    // Client side: talk to the proxy API, never to the provider directly.
//	    client := provider.NewProxyClient(provider.ProxyConfig{
//	        BaseURL: "https://example.com/api",
//	    })
//
//	    tr := lingo.New(client,
//	        lingo.WithCache(cache.NewInMemoryCache(0)),
//	    )
//
//	    langs := lingo.NewLanguageContext(
//	        lingo.WithPreferenceStore(client),
//	    )
//
//	    text := lingo.NewTranslatedText(tr, langs, "Book your first lesson")
//	    fmt.Println(text.Text()) // original until resolved, translated after
//	}
package lingo
