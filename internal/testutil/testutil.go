// Package testutil provides shared test helpers for setting up posts
// directories, artifact stores, and databases.
package testutil

import (
	"os"
	"testing"

	"github.com/weavehq/weave/internal/artifacts"
	"github.com/weavehq/weave/internal/index"
	"github.com/weavehq/weave/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "weave-test-*.db")
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

// TestPosts creates a temporary posts directory with a storage.Provider.
func TestPosts(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestArtifacts creates a temporary artifact store.
func TestArtifacts(t *testing.T) *artifacts.FS {
	t.Helper()
	store, err := artifacts.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}
