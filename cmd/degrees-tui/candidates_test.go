package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/latebit/degrees/internal/movies"
	"github.com/latebit/degrees/internal/report"
)

func testIndex(t *testing.T) *movies.Index {
	t.Helper()
	ix, err := movies.Load(
		[]movies.PersonRecord{
			{ID: "1", Name: "Ann Lee", Birth: "1970"},
			{ID: "2", Name: "Bob Ray", Birth: "1975"},
			{ID: "3", Name: "Tom Hart", Birth: "1960"},
			{ID: "4", Name: "Tom Hart", Birth: "1980"},
		},
		[]movies.MovieRecord{
			{ID: "m1", Title: "First Light", Year: "1999"},
			{ID: "m2", Title: "Second Wind", Year: "2001"},
		},
		[]movies.CastRecord{
			{PersonID: "1", MovieID: "m1"},
			{PersonID: "2", MovieID: "m1"},
			{PersonID: "2", MovieID: "m2"},
			{PersonID: "4", MovieID: "m2"},
		},
	)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return ix
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// sized returns a model that has received its first window size.
func sized(t *testing.T, source, target string) model {
	t.Helper()
	next, _ := initialModel(testIndex(t), source, target).Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(model)
}

// runSearch delivers the result of cmd back to m.
func runSearch(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a search command")
	}
	msg, ok := cmd().(searchResult)
	if !ok {
		t.Fatal("expected a searchResult message")
	}
	next, _ := m.Update(msg)
	return next.(model)
}

func TestRenderCandidatesEmpty(t *testing.T) {
	result := renderCandidates("Nobody", nil, 0, 80)
	if !strings.Contains(result, "No candidates") {
		t.Errorf("expected empty message, got %q", result)
	}
}

func TestRenderCandidatesCursor(t *testing.T) {
	people := []report.Person{
		{ID: "3", Name: "Tom Hart", Birth: "1960"},
		{ID: "4", Name: "Tom Hart", Birth: "1980"},
	}
	result := renderCandidates("Tom Hart", people, 1, 80)
	lines := strings.Split(result, "\n")

	foundSelected := false
	for _, line := range lines {
		if strings.HasPrefix(line, "> ") && strings.Contains(line, "ID: 4") {
			foundSelected = true
		}
	}
	if !foundSelected {
		t.Errorf("expected selected cursor on ID 4, output:\n%s", result)
	}
	if !strings.Contains(result, "Which 'Tom Hart'?") {
		t.Errorf("expected question header, output:\n%s", result)
	}
}

func TestRenderCandidatesTruncates(t *testing.T) {
	people := []report.Person{{ID: "1", Name: strings.Repeat("x", 100)}}
	result := renderCandidates("x", people, 0, 40)
	for _, line := range strings.Split(result, "\n") {
		if strings.HasPrefix(line, "> ") && len(line) > 38 {
			t.Errorf("line not truncated: %q", line)
		}
	}
}

func TestRenderCandidatesTruncatesMultibyte(t *testing.T) {
	people := []report.Person{{ID: "1", Name: strings.Repeat("Zoë Ōtomo 山田 ", 10)}}
	result := renderCandidates("Zoë", people, 0, 40)
	found := false
	for _, line := range strings.Split(result, "\n") {
		if !strings.HasPrefix(line, "> ") {
			continue
		}
		found = true
		if !utf8.ValidString(line) {
			t.Errorf("truncation split a character: %q", line)
		}
		if w := ansi.StringWidth(line); w > 38 {
			t.Errorf("width = %d, want <= 38: %q", w, line)
		}
		if !strings.HasSuffix(line, "...") {
			t.Errorf("expected ellipsis: %q", line)
		}
	}
	if !found {
		t.Fatalf("no selected line in:\n%s", result)
	}
}

func TestDataSource(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"no argument uses fallback", nil, "data/large", false},
		{"one argument", []string{"small"}, "small", false},
		{"extra arguments", []string{"small", "large"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dataSource(tt.args, "data/large")
			if (err != nil) != tt.wantErr {
				t.Fatalf("dataSource(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("dataSource(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestSearchFlow(t *testing.T) {
	m := sized(t, "Ann Lee", "Bob Ray")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if !m.searching {
		t.Fatal("expected search to start")
	}

	m = runSearch(t, m, cmd)
	if m.report == nil {
		t.Fatal("expected a report")
	}
	if got := m.report.Summary(); got != "1 degree of separation." {
		t.Errorf("Summary() = %q", got)
	}
	if m.focus != focusViewport {
		t.Errorf("focus = %v, want viewport", m.focus)
	}
}

func TestAmbiguousNameOpensCandidates(t *testing.T) {
	m := sized(t, "Ann Lee", "Tom Hart")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if cmd != nil {
		t.Fatal("search should wait for a pick")
	}
	if m.viewMode != viewCandidates {
		t.Fatalf("viewMode = %v, want candidates", m.viewMode)
	}
	if len(m.candidates) != 2 || m.candSlot != 1 {
		t.Fatalf("candidates = %v, slot = %d", m.candidates, m.candSlot)
	}

	next, _ = m.Update(keyRunes("j"))
	m = next.(model)
	if m.candIdx != 1 {
		t.Fatalf("candIdx = %d, want 1", m.candIdx)
	}
	next, _ = m.Update(keyRunes("j"))
	m = next.(model)
	if m.candIdx != 1 {
		t.Fatalf("cursor moved past the end: %d", m.candIdx)
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if m.resolved[1] != "4" {
		t.Fatalf("resolved target = %q, want %q", m.resolved[1], "4")
	}

	m = runSearch(t, m, cmd)
	if m.report == nil || m.report.Degrees() != 2 {
		t.Fatalf("report = %+v", m.report)
	}
}

func TestCandidatesEscReturnsToInput(t *testing.T) {
	m := sized(t, "Tom Hart", "Ann Lee")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = next.(model)

	if m.viewMode != viewSearch {
		t.Errorf("viewMode = %v, want search", m.viewMode)
	}
	if m.focus != focusSource {
		t.Errorf("focus = %v, want source input", m.focus)
	}
}

func TestUnknownNameShowsError(t *testing.T) {
	m := sized(t, "Ann Lee", "Nobody")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if m.searching {
		t.Fatal("search should not start")
	}
	if m.err == nil {
		t.Fatal("expected an error")
	}
	if m.focus != focusTarget {
		t.Errorf("focus = %v, want target input", m.focus)
	}
	if cmd == nil {
		t.Error("expected blink command")
	}
}

func TestNotConnected(t *testing.T) {
	m := sized(t, "Ann Lee", "3")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = runSearch(t, next.(model), cmd)
	if m.report == nil || m.report.Connected {
		t.Fatalf("report = %+v, want not connected", m.report)
	}
	if !strings.Contains(m.statusBarView(), "Not connected.") {
		t.Errorf("status bar = %q", m.statusBarView())
	}
}

func TestStaleSearchResultIgnored(t *testing.T) {
	m := sized(t, "Ann Lee", "Bob Ray")
	m.searchSeq = 2

	next, _ := m.Update(searchResult{seq: 1})
	m = next.(model)
	if m.report != nil {
		t.Error("stale result should be ignored")
	}
}
