// Command degrees finds how many movies separate two actors.
//
//	degrees [directory] [--source NAME] [--target NAME] [--format text|markdown|html]
//	degrees import <directory> <file.db>
//	degrees export <file.db> <directory>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/latebit/degrees/internal/config"
	"github.com/latebit/degrees/internal/dataset"
	"github.com/latebit/degrees/internal/graph"
	"github.com/latebit/degrees/internal/logging"
	"github.com/latebit/degrees/internal/movies"
	"github.com/latebit/degrees/internal/report"
)

// stdinIsTerminal reports whether names may be prompted for.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type options struct {
	configPath string
	source     string
	target     string
	format     string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "degrees [directory]",
		Short: "Find the degrees of separation between two actors",
		Long: `Find the shortest chain of movies connecting two actors.

The data source is a directory holding people.csv, movies.csv and stars.csv,
or a SQLite file produced by "degrees import".`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultPath(), "config file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (env: DEGREES_LOG_LEVEL)")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: text, json (env: DEGREES_LOG_FORMAT)")

	f := cmd.Flags()
	f.StringVar(&opts.source, "source", "", "first actor's name or id")
	f.StringVar(&opts.target, "target", "", "second actor's name or id")
	f.StringVar(&opts.format, "format", "", "output format: text, markdown, html (env: DEGREES_FORMAT)")

	cmd.AddCommand(newImportCmd(opts), newExportCmd(opts))
	return cmd
}

// loadConfig applies command-line overrides on top of the config file and
// environment.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.format != "" {
		cfg.Format = opts.format
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, cmd *cobra.Command) *slog.Logger {
	return logging.New(cfg.Log.Format, cfg.Log.Level, cmd.ErrOrStderr())
}

func runSearch(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd)

	source := cfg.DataDir
	if len(args) == 1 {
		source = args[0]
	}

	ix, err := loadIndex(cmd.Context(), logger, source)
	if err != nil {
		return err
	}

	var p prompter
	if stdinIsTerminal() {
		p = huhPrompter{}
	}
	r := &resolver{ix: ix, prompt: p, out: cmd.ErrOrStderr()}

	sourceID, err := r.resolve(opts.source, "First actor's name")
	if err != nil {
		return err
	}
	targetID, err := r.resolve(opts.target, "Second actor's name")
	if err != nil {
		return err
	}

	rep, err := search(ix, logger, sourceID, targetID)
	if err != nil {
		return err
	}
	out, err := rep.Render(cfg.Format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func loadIndex(ctx context.Context, logger *slog.Logger, source string) (*movies.Index, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Info("loading data", "source", source)
	ix, err := dataset.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	st := ix.Stats()
	logger.Info("data loaded",
		"people", st.People,
		"movies", st.Movies,
		"cast_links", st.CastLinks,
		"dropped_cast", st.DroppedCast,
	)
	return ix, nil
}

// search runs the breadth-first search and resolves the result for display.
func search(ix *movies.Index, logger *slog.Logger, sourceID, targetID string) (report.Report, error) {
	expanded := 0
	path, err := graph.ShortestPath(ix, sourceID, targetID, graph.SearchOptions{
		OnExpand: func(graph.Node) { expanded++ },
	})
	connected := true
	switch {
	case errors.Is(err, graph.ErrNotConnected):
		connected = false
	case err != nil:
		return report.Report{}, err
	}
	logger.Debug("search finished",
		"source", sourceID,
		"target", targetID,
		"expanded", expanded,
		"connected", connected,
		"degrees", path.Degrees(),
	)
	return report.Build(ix, sourceID, targetID, path, connected)
}

// printCandidates writes the disambiguation list for a name shared by several
// people.
func printCandidates(w io.Writer, ix *movies.Index, amb *movies.AmbiguousNameError) error {
	lines, err := report.Candidates(ix, amb.Candidates)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Which '%s'?\n%s", amb.Name, lines)
	return err
}
