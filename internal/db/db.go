// Package db is the SQLite-backed Analysis Store. The schema is owned by
// the embedded migrations; NewDB brings a database up to date on open.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/facescore/internal/monitoring"
)

// DB wraps the SQLite handle.
type DB struct {
	*sql.DB
	path string
}

// pragmas are applied to every connection we open.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// NewDB opens path, applies pragmas and runs pending migrations.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenDB opens path and applies pragmas without touching the schema. The
// migrate command uses it to inspect databases as they are.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// WAL with a single writer; extra connections only add lock contention.
	sqlDB.SetMaxOpenConns(1)
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	monitoring.Logf("opened analysis store %s", path)
	return &DB{DB: sqlDB, path: path}, nil
}

// Path returns the file the database was opened from.
func (db *DB) Path() string {
	return db.path
}

// Analyses returns the store over this database.
func (db *DB) Analyses() *AnalysisStore {
	return NewAnalysisStore(db.DB)
}
