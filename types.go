package lingo

import "context"

// Language is a supported UI language code (ISO 639-1).
type Language string

const (
	// English is the authored (source) language of the site.
	English Language = "en"
	// Swedish is the secondary language.
	Swedish Language = "sv"
	// Arabic is the tertiary language, rendered right-to-left.
	Arabic Language = "ar"
)

// DefaultLanguage is used when no preference is available.
const DefaultLanguage = English

// SourceAuto requests source-language auto-detection from the provider.
const SourceAuto = "auto"

// Request contains the parameters for a translation request.
type Request struct {
	Texts         []string
	TargetLang    string
	SourceLang    string // empty or "auto" lets the provider detect
	ExcludedTerms []string
	Context       string
	Glossary      map[string]string
}

// Translation is the per-string result of a translation request.
type Translation struct {
	Text           string
	DetectedSource string // set when the source language was auto-detected
}

// Provider is the interface for translation backends.
type Provider interface {
	// Translate translates req.Texts in order. The returned slice must have
	// exactly len(req.Texts) elements.
	Translate(ctx context.Context, req Request) ([]Translation, error)

	// Detect returns the ISO 639-1 code of the language text is written in.
	Detect(ctx context.Context, text string) (string, error)
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// PreferenceStore persists the user's selected language outside process
// memory so it survives a restart.
type PreferenceStore interface {
	// Load returns the persisted language and whether one was found.
	Load() (Language, bool)

	// Save overwrites the persisted language.
	Save(lang Language) error
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}
