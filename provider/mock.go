package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a mock translation provider for testing.
type MockProvider struct {
	mu           sync.Mutex
	Translations map[string]string // Map of source text to translation
	CallCount    int               // Number of times Translate was called
	LastRequest  *Request          // Last request received
	Err          error             // Forced Translate error
	DetectedLang string            // Language returned by Detect (default "en")
	DetectCount  int               // Number of times Detect was called
	DetectErr    error             // Forced Detect error
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":                  "Hej",
			"Book a lesson":          "Boka en lektion",
			"Our instructors":        "Våra instruktörer",
			"Welcome to our school.": "Välkommen till vår skola.",
		},
		DetectedLang: "en",
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req Request) ([]Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	reqCopy := req
	m.LastRequest = &reqCopy

	if m.Err != nil {
		return nil, m.Err
	}

	results := make([]Translation, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = Translation{Text: translation, DetectedSource: m.DetectedLang}
		} else {
			// Return bracketed text for unknown translations
			results[i] = Translation{Text: fmt.Sprintf("[%s]", text), DetectedSource: m.DetectedLang}
		}
	}

	return results, nil
}

// Detect returns the configured detected language.
func (m *MockProvider) Detect(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DetectCount++

	if m.DetectErr != nil {
		return "", m.DetectErr
	}

	return m.DetectedLang, nil
}

// Calls returns the Translate call count.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Reset resets the call counts and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.DetectCount = 0
	m.LastRequest = nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
