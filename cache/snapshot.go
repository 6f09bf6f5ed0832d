package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Snapshot is the JSON structure for cache export/import. Deployments dump
// the warm cache before a restart and seed the fresh process from the file,
// avoiding a burst of provider calls on the first renders.
type Snapshot struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []SnapshotEntry   `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SnapshotEntry represents a single cache entry.
type SnapshotEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Export writes the contents of an in-memory cache to w in JSON format.
// Only *InMemoryCache supports export; Redis already persists on its own.
func Export(c TranslationCache, w io.Writer, metadata map[string]string) error {
	mem, ok := c.(*InMemoryCache)
	if !ok {
		return fmt.Errorf("cache type %T does not support export", c)
	}

	data := mem.Entries()
	entries := make([]SnapshotEntry, 0, len(data))
	for key, value := range data {
		entries = append(entries, SnapshotEntry{Key: key, Value: value})
	}

	snap := Snapshot{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the cache to a file.
func ExportToFile(c TranslationCache, path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return Export(c, f, metadata)
}

// ImportResult contains statistics about an import.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}

// Import reads snapshot entries from r and loads them into any cache.
func Import(c TranslationCache, r io.Reader) (*ImportResult, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  snap.Version,
		Metadata: snap.Metadata,
	}

	for _, entry := range snap.Entries {
		if err := c.Set(entry.Key, entry.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports snapshot entries from a file.
func ImportFromFile(c TranslationCache, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Import(c, f)
}
