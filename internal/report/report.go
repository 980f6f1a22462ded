// Package report renders search results for people: plain text as printed by
// the CLI, Markdown with YAML frontmatter, and HTML.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/latebit/degrees/internal/graph"
)

// Output formats accepted by Render.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ValidFormat reports whether f is one of the supported output formats.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatMarkdown, FormatHTML:
		return true
	}
	return false
}

// Person is a resolved actor reference.
type Person struct {
	ID    string
	Name  string
	Birth string
}

// Link is one rendered step: From and To starred together in the movie.
type Link struct {
	From  Person
	To    Person
	Movie string
	Year  string
}

// Report is a search result with every id resolved to a display name.
type Report struct {
	Source    Person
	Target    Person
	Connected bool
	Links     []Link
}

// Build resolves the ids of a search result. path is ignored when connected
// is false.
func Build(c graph.Catalog, source, target string, path graph.Path, connected bool) (Report, error) {
	src, err := person(c, source)
	if err != nil {
		return Report{}, err
	}
	dst, err := person(c, target)
	if err != nil {
		return Report{}, err
	}

	r := Report{Source: src, Target: dst, Connected: connected}
	if !connected {
		return r, nil
	}

	prev := src
	for _, s := range path {
		next, err := person(c, s.PersonID)
		if err != nil {
			return Report{}, err
		}
		m, err := c.MovieByID(s.MovieID)
		if err != nil {
			return Report{}, err
		}
		r.Links = append(r.Links, Link{From: prev, To: next, Movie: m.Title, Year: m.Year})
		prev = next
	}
	return r, nil
}

func person(c graph.Catalog, id string) (Person, error) {
	p, err := c.PersonByID(id)
	if err != nil {
		return Person{}, err
	}
	return Person{ID: p.ID, Name: p.Name, Birth: p.Birth}, nil
}

// Degrees returns the degree of separation of a connected report.
func (r Report) Degrees() int {
	return len(r.Links)
}

// Summary is the headline line, e.g. "2 degrees of separation.".
func (r Report) Summary() string {
	if !r.Connected {
		return "Not connected."
	}
	if r.Degrees() == 1 {
		return "1 degree of separation."
	}
	return fmt.Sprintf("%d degrees of separation.", r.Degrees())
}

// Text renders the report the way the command line prints it.
func (r Report) Text() string {
	var b strings.Builder
	b.WriteString(r.Summary())
	b.WriteByte('\n')
	for i, l := range r.Links {
		fmt.Fprintf(&b, "%d: %s and %s starred in %s\n", i+1, l.From.Name, l.To.Name, l.Movie)
	}
	return b.String()
}

// Markdown renders the report as a Markdown document preceded by a YAML
// frontmatter block with source, target, connected and degrees.
func (r Report) Markdown() (string, error) {
	fm := map[string]string{
		"source":    r.Source.ID,
		"target":    r.Target.ID,
		"connected": strconv.FormatBool(r.Connected),
	}
	if r.Connected {
		fm["degrees"] = strconv.Itoa(r.Degrees())
	}
	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(yamlBytes)
	b.WriteString("---\n")
	b.WriteString(r.Body())
	return b.String(), nil
}

// Body renders the Markdown document without frontmatter.
func (r Report) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s to %s\n\n", escape(r.Source.Name), escape(r.Target.Name))
	b.WriteString(r.Summary())
	b.WriteString("\n\n")
	for i, l := range r.Links {
		movie := "*" + escape(l.Movie) + "*"
		if l.Year != "" {
			movie += " (" + escape(l.Year) + ")"
		}
		fmt.Fprintf(&b, "%d. **%s** and **%s** starred in %s\n", i+1, escape(l.From.Name), escape(l.To.Name), movie)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"<", `\<`,
	">", `\>`,
	"`", "\\`",
	"&", `\&`,
)

// escape makes dataset text literal inside Markdown inline content.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// HTML renders the Markdown body of the report, without frontmatter.
func (r Report) HTML() (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(r.Body()), &buf); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}

// Render renders the report in the given format.
func (r Report) Render(format string) (string, error) {
	switch format {
	case FormatText, "":
		return r.Text(), nil
	case FormatMarkdown:
		return r.Markdown()
	case FormatHTML:
		return r.HTML()
	default:
		return "", fmt.Errorf("unsupported format: %s (valid: text, markdown, html)", format)
	}
}

// People resolves ids to display records, keeping their order.
func People(c graph.Catalog, ids []string) ([]Person, error) {
	people := make([]Person, 0, len(ids))
	for _, id := range ids {
		p, err := person(c, id)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, nil
}

// CandidateLine describes one person of an ambiguous name.
func CandidateLine(p Person) string {
	return fmt.Sprintf("ID: %s, Name: %s, Birth: %s", p.ID, p.Name, p.Birth)
}

// Candidates renders the people sharing an ambiguous name, one per line.
func Candidates(c graph.Catalog, ids []string) (string, error) {
	people, err := People(c, ids)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, p := range people {
		b.WriteString(CandidateLine(p))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
