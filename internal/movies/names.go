package movies

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Resolve returns the ids of every person whose name matches raw, ignoring
// case and surrounding whitespace. The result is sorted and empty when
// nobody matches.
func (ix *Index) Resolve(raw string) []string {
	ids, ok := ix.names[nameKey(raw)]
	if !ok {
		return []string{}
	}
	return slices.Sorted(maps.Keys(ids))
}

// ResolveOne returns the single person id matching raw. It fails with
// ErrNameNotFound when nobody matches and with *AmbiguousNameError when more
// than one person does; picking among candidates is left to the caller.
func (ix *Index) ResolveOne(raw string) (string, error) {
	ids := ix.Resolve(raw)
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%q: %w", raw, ErrNameNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", &AmbiguousNameError{Name: raw, Candidates: ids}
	}
}

// Lookup resolves raw as a name and, when no name matches, as a person id.
func (ix *Index) Lookup(raw string) (string, error) {
	id, err := ix.ResolveOne(raw)
	if !errors.Is(err, ErrNameNotFound) {
		return id, err
	}
	if p, ok := ix.people[strings.TrimSpace(raw)]; ok {
		return p.ID, nil
	}
	return "", err
}
