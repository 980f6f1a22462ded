// Package graph finds shortest co-starring paths between people using a
// breadth-first search over a movies index.
package graph

import "github.com/latebit/degrees/internal/movies"

// Catalog is the read-only view of the dataset the search needs.
// *movies.Index implements it.
type Catalog interface {
	PersonByID(id string) (*movies.Person, error)
	MovieByID(id string) (*movies.Movie, error)
}

// Step is one hop of a path: the movie shared with the previous person and
// the person reached through it.
type Step struct {
	MovieID  string
	PersonID string
}

// Path is the sequence of steps from a source person to a target.
// Its length is the degree of separation.
type Path []Step

// Degrees returns the number of shared-movie links in the path.
func (p Path) Degrees() int {
	return len(p)
}

// End returns the person the path arrives at, or source for an empty path.
func (p Path) End(source string) string {
	if len(p) == 0 {
		return source
	}
	return p[len(p)-1].PersonID
}

// extend returns a copy of p with s appended. The receiver is never aliased
// so sibling nodes can share a parent path safely.
func (p Path) extend(s Step) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = s
	return out
}

// Node is a search state: the person reached and the path taken to reach it.
type Node struct {
	State string
	Path  Path
}
