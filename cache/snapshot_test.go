package cache

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-redis/redismock/v9"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := NewInMemoryCache(0)
	if err := src.Set("key1", "Hej"); err != nil {
		t.Fatal(err)
	}
	if err := src.Set("key2", "Boka en lektion"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Export(src, &buf, map[string]string{"site": "drivelane"}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := NewInMemoryCache(0)
	result, err := Import(dst, &buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 || result.Failed != 0 {
		t.Errorf("imported %d, failed %d", result.Imported, result.Failed)
	}
	if result.Version != "1.0" {
		t.Errorf("version = %q", result.Version)
	}
	if result.Metadata["site"] != "drivelane" {
		t.Errorf("metadata = %v", result.Metadata)
	}

	if val, ok := dst.Get("key1"); !ok || val != "Hej" {
		t.Errorf("dst key1 = %q (%v)", val, ok)
	}
	if val, ok := dst.Get("key2"); !ok || val != "Boka en lektion" {
		t.Errorf("dst key2 = %q (%v)", val, ok)
	}
}

func TestExport_UnsupportedCache(t *testing.T) {
	db, _ := redismock.NewClientMock()
	rc := NewRedisCacheFromClient(db, 0, "")
	var buf bytes.Buffer

	if err := Export(rc, &buf, nil); err == nil {
		t.Error("redis cache export should fail")
	}
}

func TestImport_MalformedJSON(t *testing.T) {
	dst := NewInMemoryCache(0)
	if _, err := Import(dst, strings.NewReader("{broken")); err == nil {
		t.Error("malformed JSON should error")
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")

	src := NewInMemoryCache(0)
	if err := src.Set("key1", "Hej"); err != nil {
		t.Fatal(err)
	}
	if err := ExportToFile(src, path, nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	dst := NewInMemoryCache(0)
	result, err := ImportFromFile(dst, path)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("imported %d, want 1", result.Imported)
	}
}

func TestImportFromFile_Missing(t *testing.T) {
	dst := NewInMemoryCache(0)
	if _, err := ImportFromFile(dst, filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file should error")
	}
}
