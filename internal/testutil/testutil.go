// Package testutil provides shared test helpers for setting up content trees and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/sitesearch/internal/index"
	"github.com/starford/sitesearch/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "sitesearch-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestContent creates a temporary content directory populated with files
// (relative path -> body) and returns it with a storage.Provider using the
// default filter.
func TestContent(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		WriteFile(t, dir, rel, body)
	}
	store, err := storage.NewFS(dir, storage.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile writes body to dir/rel, creating parent directories.
func WriteFile(t *testing.T, dir, rel, body string) {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
