package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/latebit/degrees/internal/report"
)

// viewMode distinguishes between the search view and picking among people
// who share a name.
type viewMode int

const (
	viewSearch viewMode = iota
	viewCandidates
)

// renderCandidates renders the namesakes of name as a list for the viewport.
func renderCandidates(name string, people []report.Person, selectedIdx, width int) string {
	if len(people) == 0 {
		return "\n  No candidates.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  Which '%s'?\n\n", name)

	for i, p := range people {
		cursor := "  "
		if i == selectedIdx {
			cursor = "> "
		}

		line := cursor + report.CandidateLine(p)
		if width > 8 && ansi.StringWidth(line) > width-2 {
			line = ansi.Truncate(line, width-2, "...")
		}

		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString("\n  [Enter] choose  [esc] back  [q] quit\n")
	return b.String()
}

// handleCandidateKey processes key events while the candidate list is shown.
func (m model) handleCandidateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.viewMode = viewSearch
		m.candidates = nil
		if m.ready {
			m.viewport.SetContent("")
		}
		return m.setFocus(focus(m.candSlot)), nil
	case "j", "down":
		if m.candIdx < len(m.candidates)-1 {
			m.candIdx++
			m.refreshCandidates()
		}
		return m, nil
	case "k", "up":
		if m.candIdx > 0 {
			m.candIdx--
			m.refreshCandidates()
		}
		return m, nil
	case "enter":
		if m.candIdx >= 0 && m.candIdx < len(m.candidates) {
			m.resolved[m.candSlot] = m.candidates[m.candIdx].ID
			m.viewMode = viewSearch
			m.candidates = nil
			return m.resolveNext()
		}
		return m, nil
	}
	return m, nil
}

func (m *model) refreshCandidates() {
	if !m.ready {
		return
	}
	name := strings.TrimSpace(m.inputs[m.candSlot].Value())
	m.viewport.SetContent(renderCandidates(name, m.candidates, m.candIdx, m.width))
}
