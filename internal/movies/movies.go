// Package movies holds the in-memory relational index of people, movies and
// the cast relation linking them.
//
// An Index is built once from already-parsed records and is read-only
// afterwards, so it may be shared between goroutines without locking.
package movies

import (
	"maps"
	"slices"
)

// Person is an actor loaded from the people table.
type Person struct {
	ID    string
	Name  string
	Birth string // may be blank

	movies map[string]struct{}
}

// MovieIDs returns the ids of the movies the person starred in, sorted.
func (p *Person) MovieIDs() []string {
	return slices.Sorted(maps.Keys(p.movies))
}

// InMovie reports whether the person is part of the movie's cast.
func (p *Person) InMovie(movieID string) bool {
	_, ok := p.movies[movieID]
	return ok
}

// Movie is a film loaded from the movies table.
type Movie struct {
	ID    string
	Title string
	Year  string

	stars map[string]struct{}
}

// StarIDs returns the ids of the people starring in the movie, sorted.
func (m *Movie) StarIDs() []string {
	return slices.Sorted(maps.Keys(m.stars))
}

// HasStar reports whether personID is part of the movie's cast.
func (m *Movie) HasStar(personID string) bool {
	_, ok := m.stars[personID]
	return ok
}

// PersonRecord is one row of the people table.
type PersonRecord struct {
	Line  int
	ID    string
	Name  string
	Birth string
}

// MovieRecord is one row of the movies table.
type MovieRecord struct {
	Line  int
	ID    string
	Title string
	Year  string
}

// CastRecord is one row of the stars table, linking a person to a movie.
type CastRecord struct {
	Line     int
	PersonID string
	MovieID  string
}
