// Package testutil provides shared test helpers for setting up databases and media roots.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/mannaz/internal/board"
	"github.com/starford/mannaz/internal/media"
)

// TestDB creates a temporary SQLite posts database that is automatically cleaned up.
func TestDB(t *testing.T) *board.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "mannaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := board.Open(board.DriverSQLite, dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestMedia creates a temporary media directory with a local image store.
func TestMedia(t *testing.T) (string, *media.Local) {
	t.Helper()
	dir := t.TempDir()
	store, err := media.NewLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
