// Package dataset reads people, movies and stars tables from a CSV directory
// or a SQLite database into records for movies.Load.
package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/latebit/degrees/internal/movies"
)

// Records holds the three tables of a dataset.
type Records struct {
	People []movies.PersonRecord
	Movies []movies.MovieRecord
	Stars  []movies.CastRecord
}

// Index builds the in-memory index from the records.
func (r Records) Index() (*movies.Index, error) {
	return movies.Load(r.People, r.Movies, r.Stars)
}

// IsDatabase reports whether source names a SQLite file rather than a CSV directory.
func IsDatabase(source string) bool {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Read loads records from source: a SQLite file when IsDatabase(source),
// otherwise a directory holding people.csv, movies.csv and stars.csv.
func Read(ctx context.Context, source string) (Records, error) {
	info, err := os.Stat(source)
	if err != nil {
		return Records{}, fmt.Errorf("open dataset: %w", err)
	}
	if info.IsDir() || !IsDatabase(source) {
		return ReadDir(ctx, source)
	}

	db, err := OpenDB(source)
	if err != nil {
		return Records{}, fmt.Errorf("open database %q: %w", source, err)
	}
	defer func() { _ = CloseDB(db) }()
	return ReadDB(ctx, db)
}

// Load reads source and builds its index.
func Load(ctx context.Context, source string) (*movies.Index, error) {
	recs, err := Read(ctx, source)
	if err != nil {
		return nil, err
	}
	return recs.Index()
}
