package lingo

import (
	"context"
	"sync"
)

// TranslatedText binds one UI string to the active language. It re-resolves
// whenever the language or the source text changes and always has something
// to show: the original text until a translation arrives, and forever if the
// provider is down.
type TranslatedText struct {
	mu         sync.Mutex
	translator *Translator
	langs      *LanguageContext
	source     string
	current    string
	gen        int
	onUpdate   func(string)
	cancel     func()
}

// NewTranslatedText creates a binding for text and starts resolving it for
// the currently active language.
func NewTranslatedText(tr *Translator, langs *LanguageContext, text string) *TranslatedText {
	b := &TranslatedText{
		translator: tr,
		langs:      langs,
		source:     text,
		current:    text,
	}
	b.cancel = langs.Subscribe(func(Language) { b.refresh() })
	b.refresh()

	return b
}

// Text returns the translated value, or the original while a translation is
// outstanding or failed. It is never empty for non-empty source text.
func (b *TranslatedText) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// SetText replaces the source text and re-resolves it.
func (b *TranslatedText) SetText(text string) {
	b.mu.Lock()
	b.source = text
	b.current = text
	b.mu.Unlock()
	b.refresh()
}

// OnUpdate registers a callback invoked when the displayed value changes.
func (b *TranslatedText) OnUpdate(fn func(string)) {
	b.mu.Lock()
	b.onUpdate = fn
	b.mu.Unlock()
}

// Close cancels the language subscription and discards in-flight results.
func (b *TranslatedText) Close() {
	b.mu.Lock()
	b.gen++
	b.mu.Unlock()
	b.cancel()
}

func (b *TranslatedText) refresh() {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	source := b.source
	b.mu.Unlock()

	target := b.langs.Current()

	go func() {
		translated := b.translator.TranslateOne(context.Background(), source, target)

		b.mu.Lock()
		if gen != b.gen {
			// A newer refresh superseded this one.
			b.mu.Unlock()
			return
		}
		changed := translated != b.current
		b.current = translated
		fn := b.onUpdate
		b.mu.Unlock()

		if changed && fn != nil {
			fn(translated)
		}
	}()
}

// TranslatedContent binds an ordered sequence of UI strings to the active
// language, resolving them with a single batched call per refresh.
type TranslatedContent struct {
	mu         sync.Mutex
	translator *Translator
	langs      *LanguageContext
	source     []string
	current    []string
	gen        int
	onUpdate   func([]string)
	cancel     func()
}

// NewTranslatedContent creates a binding for texts and starts resolving them
// for the currently active language.
func NewTranslatedContent(tr *Translator, langs *LanguageContext, texts []string) *TranslatedContent {
	b := &TranslatedContent{
		translator: tr,
		langs:      langs,
		source:     originals(texts),
		current:    originals(texts),
	}
	b.cancel = langs.Subscribe(func(Language) { b.refresh() })
	b.refresh()

	return b
}

// Strings returns the translated sequence in source order. Unresolved or
// failed entries hold their original values.
func (b *TranslatedContent) Strings() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return originals(b.current)
}

// SetTexts replaces the source sequence and re-resolves it.
func (b *TranslatedContent) SetTexts(texts []string) {
	b.mu.Lock()
	b.source = originals(texts)
	b.current = originals(texts)
	b.mu.Unlock()
	b.refresh()
}

// OnUpdate registers a callback invoked when the displayed sequence changes.
func (b *TranslatedContent) OnUpdate(fn func([]string)) {
	b.mu.Lock()
	b.onUpdate = fn
	b.mu.Unlock()
}

// Close cancels the language subscription and discards in-flight results.
func (b *TranslatedContent) Close() {
	b.mu.Lock()
	b.gen++
	b.mu.Unlock()
	b.cancel()
}

func (b *TranslatedContent) refresh() {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	source := originals(b.source)
	b.mu.Unlock()

	target := b.langs.Current()

	go func() {
		translated := b.translator.TranslateBatch(context.Background(), source, target)

		b.mu.Lock()
		if gen != b.gen {
			b.mu.Unlock()
			return
		}
		changed := !equalStrings(translated, b.current)
		b.current = translated
		fn := b.onUpdate
		b.mu.Unlock()

		if changed && fn != nil {
			fn(originals(translated))
		}
	}()
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
