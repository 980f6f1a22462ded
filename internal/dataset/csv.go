package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/latebit/degrees/internal/movies"
)

// File names inside a CSV dataset directory.
const (
	PeopleFile = "people.csv"
	MoviesFile = "movies.csv"
	StarsFile  = "stars.csv"
)

type column struct {
	name     string
	required bool
}

var (
	peopleColumns = []column{{"id", true}, {"name", true}, {"birth", false}}
	moviesColumns = []column{{"id", true}, {"title", true}, {"year", true}}
	starsColumns  = []column{{"person_id", true}, {"movie_id", true}}
)

// ReadDir reads the three CSV files of a dataset directory concurrently.
// A missing required column yields a *movies.DataError.
func ReadDir(ctx context.Context, dir string) (Records, error) {
	var recs Records
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return readCSV(gctx, filepath.Join(dir, PeopleFile), "people", peopleColumns, func(line int, f []string) {
			recs.People = append(recs.People, movies.PersonRecord{Line: line, ID: f[0], Name: f[1], Birth: f[2]})
		})
	})
	g.Go(func() error {
		return readCSV(gctx, filepath.Join(dir, MoviesFile), "movies", moviesColumns, func(line int, f []string) {
			recs.Movies = append(recs.Movies, movies.MovieRecord{Line: line, ID: f[0], Title: f[1], Year: f[2]})
		})
	})
	g.Go(func() error {
		return readCSV(gctx, filepath.Join(dir, StarsFile), "stars", starsColumns, func(line int, f []string) {
			recs.Stars = append(recs.Stars, movies.CastRecord{Line: line, PersonID: f[0], MovieID: f[1]})
		})
	})

	if err := g.Wait(); err != nil {
		return Records{}, err
	}
	return recs, nil
}

// readCSV calls row for each data line with the values of cols in order.
// Absent optional columns and short rows produce empty values.
func readCSV(ctx context.Context, path, source string, cols []column, row func(line int, fields []string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &movies.DataError{Source: source, Reason: "missing header"}
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}

	idx := make([]int, len(cols))
	for i, c := range cols {
		p, ok := pos[c.name]
		if !ok {
			if c.required {
				return &movies.DataError{Source: source, Field: c.name, Reason: "missing column"}
			}
			p = -1
		}
		idx[i] = p
	}

	fields := make([]string, len(cols))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		line, _ := r.FieldPos(0)

		for i, p := range idx {
			fields[i] = ""
			if p >= 0 && p < len(rec) {
				fields[i] = strings.TrimSpace(rec[p])
			}
		}
		row(line, fields)
	}
}

// WriteDir writes records as a CSV dataset directory.
func WriteDir(dir string, recs Records) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	people := [][]string{{"id", "name", "birth"}}
	for _, p := range recs.People {
		people = append(people, []string{p.ID, p.Name, p.Birth})
	}
	films := [][]string{{"id", "title", "year"}}
	for _, m := range recs.Movies {
		films = append(films, []string{m.ID, m.Title, m.Year})
	}
	stars := [][]string{{"person_id", "movie_id"}}
	for _, s := range recs.Stars {
		stars = append(stars, []string{s.PersonID, s.MovieID})
	}

	for name, rows := range map[string][][]string{PeopleFile: people, MoviesFile: films, StarsFile: stars} {
		if err := writeCSV(filepath.Join(dir, name), rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
