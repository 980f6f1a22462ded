package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/latebit/degrees/internal/config"
	"github.com/latebit/degrees/internal/dataset"
	"github.com/latebit/degrees/internal/graph"
	"github.com/latebit/degrees/internal/logging"
	"github.com/latebit/degrees/internal/movies"
	"github.com/latebit/degrees/internal/report"
)

type focus int

const (
	focusSource focus = iota
	focusTarget
	focusViewport
)

type model struct {
	ix        *movies.Index
	inputs    [2]textinput.Model
	resolved  [2]string
	viewport  viewport.Model
	focus     focus
	viewMode  viewMode
	report    *report.Report
	err       error
	searching bool
	searchSeq uint64

	candidates []report.Person
	candIdx    int
	candSlot   int

	pendingBody string
	width       int
	height      int
	ready       bool
}

type searchResult struct {
	report report.Report
	err    error
	seq    uint64
}

func initialModel(ix *movies.Index, source, target string) model {
	var inputs [2]textinput.Model
	for i, placeholder := range []string{"first actor", "second actor"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Prompt = " "
		inputs[i] = ti
	}
	inputs[0].SetValue(source)
	inputs[1].SetValue(target)
	inputs[0].Focus()

	return model{
		ix:     ix,
		inputs: inputs,
		focus:  focusSource,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.viewMode == viewCandidates {
			return m.handleCandidateKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y < 2 {
			m = m.setFocus(focus(msg.Y))
			return m, textinput.Blink
		}
		if m.ready {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 3 // two inputs + divider
		footerHeight := 1 // status bar
		viewportHeight := max(m.height-headerHeight-footerHeight, 1)

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.ready = true
			switch {
			case m.err != nil:
				m.viewport.SetContent(errorView(m.err))
			case m.pendingBody != "":
				m.setMarkdown(m.pendingBody)
				m.pendingBody = ""
			}
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		for i := range m.inputs {
			m.inputs[i].Width = m.width - 2
		}
		return m, nil

	case searchResult:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.searching = false
		if msg.err != nil {
			m.err = msg.err
			m.report = nil
			if m.ready {
				m.viewport.SetContent(errorView(msg.err))
			}
			return m, nil
		}
		m.err = nil
		m.report = &msg.report
		if m.ready {
			m.setMarkdown(msg.report.Body())
			m.viewport.GotoTop()
		} else {
			m.pendingBody = msg.report.Body()
		}
		m = m.setFocus(focusViewport)
		return m, tea.ClearScreen
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyTab:
		return m.setFocus((m.focus + 1) % 3), textinput.Blink
	case tea.KeyShiftTab:
		return m.setFocus((m.focus + 2) % 3), textinput.Blink
	}

	if m.focus != focusViewport {
		switch msg.Type {
		case tea.KeyEnter:
			m.resolved = [2]string{}
			m.err = nil
			return m.resolveNext()
		case tea.KeyEscape:
			return m.setFocus(focusViewport), nil
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	// Viewport focused.
	switch msg.String() {
	case "q":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) setFocus(f focus) model {
	m.focus = f
	for i := range m.inputs {
		if focus(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

// resolveNext resolves the first input without an id. An ambiguous name
// switches to the candidate list; once both inputs resolve the search starts.
func (m model) resolveNext() (tea.Model, tea.Cmd) {
	for i := range m.inputs {
		if m.resolved[i] != "" {
			continue
		}
		raw := strings.TrimSpace(m.inputs[i].Value())
		if raw == "" {
			m.err = errors.New("enter both actors")
			return m.setFocus(focus(i)), textinput.Blink
		}

		id, err := m.ix.Lookup(raw)
		var amb *movies.AmbiguousNameError
		switch {
		case err == nil:
			m.resolved[i] = id
		case errors.As(err, &amb):
			people, err := report.People(m.ix, amb.Candidates)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.candidates = people
			m.candIdx = 0
			m.candSlot = i
			m.viewMode = viewCandidates
			if m.ready {
				m.viewport.SetContent(renderCandidates(amb.Name, m.candidates, m.candIdx, m.width))
			}
			return m, nil
		default:
			m.err = err
			if m.ready {
				m.viewport.SetContent(errorView(err))
			}
			return m.setFocus(focus(i)), textinput.Blink
		}
	}

	m.searching = true
	m.searchSeq++
	return m, m.doSearch(m.resolved[0], m.resolved[1])
}

func (m model) doSearch(source, target string) tea.Cmd {
	ix, seq := m.ix, m.searchSeq
	return func() tea.Msg {
		path, err := graph.ShortestPath(ix, source, target, graph.SearchOptions{})
		connected := !errors.Is(err, graph.ErrNotConnected)
		if err != nil && connected {
			return searchResult{err: err, seq: seq}
		}
		rep, err := report.Build(ix, source, target, path, connected)
		return searchResult{report: rep, err: err, seq: seq}
	}
}

func (m *model) setMarkdown(body string) {
	rendered, err := renderMarkdown(body, m.width)
	if err != nil {
		m.viewport.SetContent(body)
		return
	}
	m.viewport.SetContent(rendered)
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	for i := range m.inputs {
		style := lipgloss.NewStyle().
			Padding(0, 1).
			Width(m.width)
		if m.focus == focus(i) {
			style = style.Bold(true)
		}
		b.WriteString(style.Render(m.inputs[i].View()))
		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat("─", m.width))
	b.WriteByte('\n')

	b.WriteString(m.viewport.View())
	b.WriteByte('\n')

	b.WriteString(m.statusBarView())

	return b.String()
}

func (m model) statusBarView() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1)

	if m.searching {
		return style.Render("Searching...")
	}
	if m.err != nil {
		return style.Foreground(lipgloss.Color("9")).Render("Error: " + m.err.Error())
	}
	if m.viewMode == viewCandidates {
		return style.Faint(true).Render("Pick the intended person")
	}
	if m.report == nil {
		return style.Faint(true).Render("Enter two actor names and press Enter")
	}

	parts := []string{m.report.Summary()}
	scroll := fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))
	parts = append(parts, scroll)

	if !m.report.Connected {
		style = style.Foreground(lipgloss.Color("11"))
	}
	return style.Render(strings.Join(parts, "  "))
}

func renderMarkdown(body string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return "", err
	}
	return r.Render(body)
}

func errorView(err error) string {
	return fmt.Sprintf("\n  Error: %s\n", err.Error())
}

// dataSource returns the dataset named on the command line, or fallback when
// none is given. More than one argument is a usage error.
func dataSource(args []string, fallback string) (string, error) {
	switch len(args) {
	case 0:
		return fallback, nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected at most one directory, got %d arguments", len(args))
	}
}

func main() {
	configPath := flag.String("config", config.DefaultPath(), "config file")
	source := flag.String("source", "", "first actor's name or id")
	target := flag.String("target", "", "second actor's name or id")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: degrees-tui [-source NAME] [-target NAME] [directory]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.Format, cfg.Log.Level, os.Stderr)

	data, err := dataSource(flag.Args(), cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}
	logger.Info("loading data", "source", data)
	ix, err := dataset.Load(context.Background(), data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		initialModel(ix, *source, *target),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
