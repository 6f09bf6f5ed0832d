package lingo

import (
	"strings"

	"golang.org/x/text/language"
)

// SupportedLanguages lists the closed set of UI languages, in display order.
var SupportedLanguages = []Language{English, Swedish, Arabic}

// LanguageNames maps supported codes to human-readable names for provider prompts.
var LanguageNames = map[Language]string{
	English: "English",
	Swedish: "Swedish",
	Arabic:  "Arabic",
}

// matchTags mirrors SupportedLanguages for Accept-Language matching. The
// first entry is the fallback and must be DefaultLanguage.
var matchTags = []language.Tag{
	language.English,
	language.Swedish,
	language.Arabic,
}

var languageMatcher = language.NewMatcher(matchTags)

// IsSupported reports whether code names a supported UI language.
// Region subtags are accepted ("sv-SE" matches Swedish).
func IsSupported(code string) bool {
	_, err := ParseLanguage(code)
	return err == nil
}

// ParseLanguage normalizes code to a supported Language. It accepts any
// casing and an optional region subtag with "-" or "_" separators.
// An unsupported code yields an UnsupportedLanguageError.
func ParseLanguage(code string) (Language, error) {
	base := strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}

	for _, lang := range SupportedLanguages {
		if base == string(lang) {
			return lang, nil
		}
	}

	return "", &UnsupportedLanguageError{Code: code}
}

// MatchAcceptLanguage returns the best supported language for an
// Accept-Language header value, or DefaultLanguage if nothing matches.
func MatchAcceptLanguage(header string) Language {
	if strings.TrimSpace(header) == "" {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}

	_, index, conf := languageMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}

	return SupportedLanguages[index]
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(code string) string {
	if lang, err := ParseLanguage(code); err == nil {
		return LanguageNames[lang]
	}
	return code
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(code string) string {
	base := strings.Split(code, "_")[0]
	base = strings.Split(base, "-")[0]
	base = strings.ToLower(base)

	if RTLLanguages[base] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(code string) bool {
	return GetDirection(code) == "rtl"
}

// NormalizeLocale converts a language code to the standard format (e.g., "sv-SE" → "sv_SE").
func NormalizeLocale(code string) string {
	return strings.ReplaceAll(code, "-", "_")
}
