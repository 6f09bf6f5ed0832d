package lingo

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from a source language (or "auto"), a target
// language, and the source text. One key identifies exactly one translation
// result.
func CacheKey(sourceLang, targetLang, text string) string {
	if sourceLang == "" {
		sourceLang = SourceAuto
	}
	return HashText(text) + ":" + sourceLang + ":" + targetLang
}
