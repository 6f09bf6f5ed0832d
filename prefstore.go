package lingo

import (
	"os"
	"strings"
	"sync"
)

// MemoryPreferenceStore keeps the preference in process memory. Useful for
// tests and as a placeholder before a durable store is wired.
type MemoryPreferenceStore struct {
	mu   sync.RWMutex
	lang Language
	set  bool
}

// Load returns the stored language, if any.
func (s *MemoryPreferenceStore) Load() (Language, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang, s.set
}

// Save overwrites the stored language.
func (s *MemoryPreferenceStore) Save(lang Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = lang
	s.set = true
	return nil
}

// FilePreferenceStore persists the preference to a single file, surviving
// process restarts.
type FilePreferenceStore struct {
	path string
}

// NewFilePreferenceStore creates a store backed by the file at path.
func NewFilePreferenceStore(path string) *FilePreferenceStore {
	return &FilePreferenceStore{path: path}
}

// Load reads and validates the persisted language. A missing or corrupt file
// reads as "no preference".
func (s *FilePreferenceStore) Load() (Language, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	lang, err := ParseLanguage(strings.TrimSpace(string(data)))
	if err != nil {
		return "", false
	}

	return lang, true
}

// Save overwrites the persisted language.
func (s *FilePreferenceStore) Save(lang Language) error {
	return os.WriteFile(s.path, []byte(lang), 0o600)
}

var (
	_ PreferenceStore = (*MemoryPreferenceStore)(nil)
	_ PreferenceStore = (*FilePreferenceStore)(nil)
)
