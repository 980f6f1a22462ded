package movies

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an id is not present in the index.
var ErrNotFound = errors.New("not found")

// ErrNameNotFound is returned by ResolveOne when no person has the name.
var ErrNameNotFound = errors.New("name not found")

// DataError reports a malformed input record. Loading stops at the first one.
type DataError struct {
	Source string // "people", "movies" or "stars"
	Line   int    // 0 when the error concerns the whole table
	Field  string
	Reason string
}

func (e *DataError) Error() string {
	var b strings.Builder
	b.WriteString(e.Source)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Field != "" {
		fmt.Fprintf(&b, " %q", e.Field)
	}
	return b.String()
}

// AmbiguousNameError is returned by ResolveOne when several people share a name.
type AmbiguousNameError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("name %q is ambiguous: %d candidates", e.Name, len(e.Candidates))
}
