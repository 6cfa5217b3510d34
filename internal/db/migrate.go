package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

type migration struct {
	name string
	sql  string
}

// RunMigrations applies the schema migrations in lexical order. A
// migrationsDir present on disk takes precedence over the embedded copies, so
// an operator can patch the schema without rebuilding the binary.
func RunMigrations(conn *sql.DB, migrationsDir string) error {
	migs, err := collectMigrations(migrationsDir)
	if err != nil {
		return err
	}
	for _, m := range migs {
		if m.sql == "" {
			continue
		}
		if _, err := conn.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}
	return nil
}

func collectMigrations(dir string) ([]migration, error) {
	if dir != "" {
		migs, err := readMigrationFS(os.DirFS(dir))
		if err == nil {
			return migs, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("migrations dir %s: %w", dir, err)
		}
	}
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("embedded migrations: %w", err)
	}
	migs, err := readMigrationFS(sub)
	if err != nil {
		return nil, fmt.Errorf("embedded migrations: %w", err)
	}
	return migs, nil
}

func readMigrationFS(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var migs []migration
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("load migration %s: %w", entry.Name(), err)
		}
		migs = append(migs, migration{name: entry.Name(), sql: string(data)})
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].name < migs[j].name })
	return migs, nil
}
