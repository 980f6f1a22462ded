package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/latebit/degrees/internal/movies"
	"github.com/latebit/degrees/internal/report"
)

// prompter asks the user for names and for a pick among namesakes.
type prompter interface {
	Name(title string) (string, error)
	Choose(name string, people []report.Person) (string, error)
}

type huhPrompter struct{}

func (huhPrompter) Name(title string) (string, error) {
	var name string
	err := huh.NewInput().
		Title(title).
		Value(&name).
		Run()
	return name, err
}

func (huhPrompter) Choose(name string, people []report.Person) (string, error) {
	var id string
	err := huh.NewSelect[string]().
		Title(fmt.Sprintf("Which '%s'?", name)).
		Options(candidateOptions(people)...).
		Value(&id).
		Run()
	return id, err
}

func candidateOptions(people []report.Person) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(people))
	for _, p := range people {
		opts = append(opts, huh.NewOption(report.CandidateLine(p), p.ID))
	}
	return opts
}

// resolver turns a name or id into a person id. With a nil prompt it never
// asks: missing names and ambiguity are errors.
type resolver struct {
	ix     *movies.Index
	prompt prompter
	out    io.Writer
}

func (r *resolver) resolve(raw, title string) (string, error) {
	fromFlag := raw != ""
	for {
		if raw == "" {
			if r.prompt == nil {
				return "", errors.New("missing actor name: pass --source and --target when stdin is not a terminal")
			}
			name, err := r.prompt.Name(title)
			if err != nil {
				return "", err
			}
			if name == "" {
				continue
			}
			raw = name
		}

		id, err := r.ix.Lookup(raw)
		var amb *movies.AmbiguousNameError
		switch {
		case err == nil:
			return id, nil
		case errors.As(err, &amb):
			if r.prompt == nil {
				if perr := printCandidates(r.out, r.ix, amb); perr != nil {
					return "", perr
				}
				return "", err
			}
			people, perr := report.People(r.ix, amb.Candidates)
			if perr != nil {
				return "", perr
			}
			return r.prompt.Choose(amb.Name, people)
		case errors.Is(err, movies.ErrNameNotFound) && r.prompt != nil && !fromFlag:
			fmt.Fprintln(r.out, "Actor not found. Please try again.")
			raw = ""
		default:
			return "", err
		}
	}
}
