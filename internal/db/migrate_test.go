package db

import (
	"os"
	"path/filepath"
	"testing"
)

func tableExists(t *testing.T, store *SQLiteStore, name string) bool {
	t.Helper()
	var n int
	err := store.db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&n)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n > 0
}

func TestRunMigrationsDiskDirTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	alt := "CREATE TABLE IF NOT EXISTS alt_schema (id TEXT PRIMARY KEY);"
	if err := os.WriteFile(filepath.Join(dir, "0001_alt.sql"), []byte(alt), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}

	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := RunMigrations(conn, dir); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	store, err := NewSQLiteStore(conn)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}

	if !tableExists(t, store, "alt_schema") {
		t.Fatal("disk migration not applied")
	}
	if tableExists(t, store, "sessions") {
		t.Fatal("embedded migrations must not run when a disk dir exists")
	}
}

func TestRunMigrationsFallsBackToEmbedded(t *testing.T) {
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	// Nonexistent dir falls through to the embedded schema.
	if err := RunMigrations(conn, filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	store, err := NewSQLiteStore(conn)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	for _, table := range []string{"sessions", "submissions", "audit_log"} {
		if !tableExists(t, store, table) {
			t.Fatalf("embedded migration missing table %s", table)
		}
	}
}

func TestRunMigrationsBadSQLFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "0001_bad.sql"), []byte("NOT SQL;"), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := RunMigrations(conn, dir); err == nil {
		t.Fatal("expected error for invalid migration SQL")
	}
}
