package movies

import (
	"fmt"
	"strings"
)

// Index is the loaded dataset: people and movies by id, the name index and
// the symmetric cast back-references.
type Index struct {
	people map[string]*Person
	movies map[string]*Movie
	names  map[string]map[string]struct{}

	links   int
	dropped int
}

// Stats summarises a loaded index.
type Stats struct {
	People      int
	Movies      int
	CastLinks   int
	DroppedCast int
}

// Load builds an Index from parsed records.
//
// A person without id or name, a movie without id or title, or a duplicate
// id aborts the load with a *DataError. Whitespace-only values count as
// absent. Cast records referencing an unknown person or movie are skipped.
func Load(people []PersonRecord, films []MovieRecord, cast []CastRecord) (*Index, error) {
	ix := &Index{
		people: make(map[string]*Person, len(people)),
		movies: make(map[string]*Movie, len(films)),
		names:  make(map[string]map[string]struct{}, len(people)),
	}

	for _, r := range people {
		if blank(r.ID) {
			return nil, &DataError{Source: "people", Line: r.Line, Field: "id", Reason: "missing field"}
		}
		if blank(r.Name) {
			return nil, &DataError{Source: "people", Line: r.Line, Field: "name", Reason: "missing field"}
		}
		if _, dup := ix.people[r.ID]; dup {
			return nil, &DataError{Source: "people", Line: r.Line, Field: r.ID, Reason: "duplicate id"}
		}
		ix.people[r.ID] = &Person{
			ID:     r.ID,
			Name:   r.Name,
			Birth:  r.Birth,
			movies: make(map[string]struct{}),
		}

		key := nameKey(r.Name)
		ids, ok := ix.names[key]
		if !ok {
			ids = make(map[string]struct{}, 1)
			ix.names[key] = ids
		}
		ids[r.ID] = struct{}{}
	}

	for _, r := range films {
		if blank(r.ID) {
			return nil, &DataError{Source: "movies", Line: r.Line, Field: "id", Reason: "missing field"}
		}
		if blank(r.Title) {
			return nil, &DataError{Source: "movies", Line: r.Line, Field: "title", Reason: "missing field"}
		}
		if _, dup := ix.movies[r.ID]; dup {
			return nil, &DataError{Source: "movies", Line: r.Line, Field: r.ID, Reason: "duplicate id"}
		}
		ix.movies[r.ID] = &Movie{
			ID:    r.ID,
			Title: r.Title,
			Year:  r.Year,
			stars: make(map[string]struct{}),
		}
	}

	for _, r := range cast {
		p, okP := ix.people[r.PersonID]
		m, okM := ix.movies[r.MovieID]
		if !okP || !okM {
			ix.dropped++
			continue
		}
		if _, seen := p.movies[m.ID]; seen {
			continue
		}
		p.movies[m.ID] = struct{}{}
		m.stars[p.ID] = struct{}{}
		ix.links++
	}

	return ix, nil
}

// PersonByID returns the person with the given id.
func (ix *Index) PersonByID(id string) (*Person, error) {
	p, ok := ix.people[id]
	if !ok {
		return nil, fmt.Errorf("person %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// MovieByID returns the movie with the given id.
func (ix *Index) MovieByID(id string) (*Movie, error) {
	m, ok := ix.movies[id]
	if !ok {
		return nil, fmt.Errorf("movie %q: %w", id, ErrNotFound)
	}
	return m, nil
}

// Stats returns table sizes and the number of cast records that were dropped.
func (ix *Index) Stats() Stats {
	return Stats{
		People:      len(ix.people),
		Movies:      len(ix.movies),
		CastLinks:   ix.links,
		DroppedCast: ix.dropped,
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
