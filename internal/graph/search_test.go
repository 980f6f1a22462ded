package graph

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/latebit/degrees/internal/movies"
)

func TestShortestPathTwoDegrees(t *testing.T) {
	ix := buildIndex(t, map[string][]string{
		"M1": {"A", "B"},
		"M2": {"B", "C"},
	})

	path, err := ShortestPath(ix, "A", "C", SearchOptions{})
	if err != nil {
		t.Fatalf("ShortestPath() error: %v", err)
	}
	want := Path{{MovieID: "M1", PersonID: "B"}, {MovieID: "M2", PersonID: "C"}}
	if !slices.Equal(path, want) {
		t.Errorf("ShortestPath(A, C) = %v, want %v", path, want)
	}
	if path.Degrees() != 2 {
		t.Errorf("Degrees() = %d, want 2", path.Degrees())
	}
}

func TestShortestPathDirectCostar(t *testing.T) {
	ix := buildIndex(t, map[string][]string{
		"M1": {"A", "B"},
	})

	path, err := ShortestPath(ix, "B", "A", SearchOptions{})
	if err != nil {
		t.Fatalf("ShortestPath() error: %v", err)
	}
	want := Path{{MovieID: "M1", PersonID: "A"}}
	if !slices.Equal(path, want) {
		t.Errorf("ShortestPath(B, A) = %v, want %v", path, want)
	}
}

func TestShortestPathNotConnected(t *testing.T) {
	ix := buildIndex(t, map[string][]string{
		"M1": {"A", "B"},
		"M2": {"C", "D"},
	}, "E")

	tests := []struct{ source, target string }{
		{"A", "C"},
		{"D", "B"},
		{"A", "E"}, // E is in no movie
		{"E", "A"},
	}
	for _, tt := range tests {
		t.Run(tt.source+"->"+tt.target, func(t *testing.T) {
			path, err := ShortestPath(ix, tt.source, tt.target, SearchOptions{})
			if !errors.Is(err, ErrNotConnected) {
				t.Fatalf("ShortestPath() error = %v, want ErrNotConnected", err)
			}
			if path != nil {
				t.Errorf("path = %v, want nil", path)
			}
		})
	}
}

func TestShortestPathSameSource(t *testing.T) {
	ix := buildIndex(t, map[string][]string{
		"M1": {"A", "B"},
	}, "lonely")

	for _, id := range []string{"A", "lonely"} {
		path, err := ShortestPath(ix, id, id, SearchOptions{})
		if err != nil {
			t.Fatalf("ShortestPath(%s, %s) error: %v", id, id, err)
		}
		if path == nil || len(path) != 0 {
			t.Errorf("ShortestPath(%s, %s) = %#v, want empty non-nil path", id, id, path)
		}
	}
}

func TestShortestPathUnknownIDs(t *testing.T) {
	ix := buildIndex(t, map[string][]string{"M1": {"A", "B"}})

	if _, err := ShortestPath(ix, "ghost", "A", SearchOptions{}); !errors.Is(err, movies.ErrNotFound) {
		t.Errorf("unknown source: error = %v, want ErrNotFound", err)
	}
	if _, err := ShortestPath(ix, "A", "ghost", SearchOptions{}); !errors.Is(err, movies.ErrNotFound) {
		t.Errorf("unknown target: error = %v, want ErrNotFound", err)
	}
}

func TestShortestPathPrefersLowestMovieID(t *testing.T) {
	ix := buildIndex(t, map[string][]string{
		"M7": {"A", "B"},
		"M3": {"A", "B"},
		"M5": {"B", "C"},
		"M4": {"B", "C"},
	})

	path, err := ShortestPath(ix, "A", "C", SearchOptions{})
	if err != nil {
		t.Fatalf("ShortestPath() error: %v", err)
	}
	want := Path{{MovieID: "M3", PersonID: "B"}, {MovieID: "M4", PersonID: "C"}}
	if !slices.Equal(path, want) {
		t.Errorf("ShortestPath(A, C) = %v, want %v", path, want)
	}
}

func TestShortestPathExpandsEachStateOnce(t *testing.T) {
	// A dense cluster with many cycles and parallel edges; target unreachable
	// so every reachable state is expanded.
	ix := buildIndex(t, map[string][]string{
		"M1": {"A", "B", "C", "D"},
		"M2": {"A", "B", "C"},
		"M3": {"C", "D", "E"},
		"M4": {"E", "F", "A"},
		"M5": {"F", "B"},
	}, "Z")

	expanded := make(map[string]int)
	_, err := ShortestPath(ix, "A", "Z", SearchOptions{
		OnExpand: func(n Node) { expanded[n.State]++ },
	})
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("ShortestPath() error = %v, want ErrNotConnected", err)
	}

	if len(expanded) != 6 {
		t.Errorf("expanded %d states, want 6: %v", len(expanded), expanded)
	}
	for state, n := range expanded {
		if n != 1 {
			t.Errorf("state %s expanded %d times, want 1", state, n)
		}
	}
}

func TestShortestPathMatchesBruteForce(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			cast := randomCast(seed, 12, 9)
			people := make([]string, 12)
			for i := range people {
				people[i] = fmt.Sprintf("P%02d", i)
			}
			ix := buildIndex(t, cast, people...)
			dist := allPairsDistances(people, cast)

			for i, src := range people {
				for j, dst := range people {
					path, err := ShortestPath(ix, src, dst, SearchOptions{})
					want := dist[i][j]
					if want < 0 {
						if !errors.Is(err, ErrNotConnected) {
							t.Fatalf("%s->%s: error = %v, want ErrNotConnected", src, dst, err)
						}
						continue
					}
					if err != nil {
						t.Fatalf("%s->%s: unexpected error: %v", src, dst, err)
					}
					if path.Degrees() != want {
						t.Errorf("%s->%s: degrees = %d, want %d (path %v)", src, dst, path.Degrees(), want, path)
					}
					assertValidPath(t, ix, src, dst, path)
				}
			}
		})
	}
}

// randomCast returns a movie -> stars listing over nPeople people P00..Pnn.
func randomCast(seed uint64, nPeople, nMovies int) map[string][]string {
	r := rand.New(rand.NewPCG(seed, seed*7919))
	cast := make(map[string][]string, nMovies)
	for m := range nMovies {
		size := 1 + r.IntN(3)
		var stars []string
		for range size {
			id := fmt.Sprintf("P%02d", r.IntN(nPeople))
			if !slices.Contains(stars, id) {
				stars = append(stars, id)
			}
		}
		cast[fmt.Sprintf("M%02d", m)] = stars
	}
	return cast
}

// allPairsDistances runs Floyd-Warshall on the co-star graph; -1 means unreachable.
func allPairsDistances(people []string, cast map[string][]string) [][]int {
	const inf = 1 << 30
	pos := make(map[string]int, len(people))
	for i, p := range people {
		pos[p] = i
	}

	n := len(people)
	d := make([][]int, n)
	for i := range d {
		d[i] = make([]int, n)
		for j := range d[i] {
			d[i][j] = inf
		}
		d[i][i] = 0
	}
	for _, stars := range cast {
		for _, a := range stars {
			for _, b := range stars {
				if a != b {
					d[pos[a]][pos[b]] = 1
				}
			}
		}
	}
	for k := range n {
		for i := range n {
			for j := range n {
				if d[i][k]+d[k][j] < d[i][j] {
					d[i][j] = d[i][k] + d[k][j]
				}
			}
		}
	}
	for i := range d {
		for j := range d[i] {
			if d[i][j] == inf {
				d[i][j] = -1
			}
		}
	}
	return d
}

func assertValidPath(t *testing.T, ix *movies.Index, source, target string, path Path) {
	t.Helper()
	prev := source
	for i, s := range path {
		m, err := ix.MovieByID(s.MovieID)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if !m.HasStar(prev) || !m.HasStar(s.PersonID) {
			t.Fatalf("step %d: %s does not link %s and %s", i, s.MovieID, prev, s.PersonID)
		}
		prev = s.PersonID
	}
	if prev != target {
		t.Fatalf("path ends at %s, want %s", prev, target)
	}
}
