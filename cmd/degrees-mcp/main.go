// Command degrees-mcp is an MCP server that exposes actor lookup and the
// degrees-of-separation search as tools for LLM agents, over stdio.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/time/rate"

	"github.com/latebit/degrees/internal/config"
	"github.com/latebit/degrees/internal/dataset"
	"github.com/latebit/degrees/internal/graph"
	"github.com/latebit/degrees/internal/logging"
	"github.com/latebit/degrees/internal/movies"
	"github.com/latebit/degrees/internal/report"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "config file")
	data := flag.String("data", "", "dataset directory or SQLite file (env: DEGREES_DATA)")
	searchRate := flag.Float64("search-rate", 0, "max shortest_path searches per second, 0 for no limit")
	searchBurst := flag.Int("search-burst", 5, "searches allowed in a burst when -search-rate is set")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *data != "" {
		cfg.DataDir = *data
	}
	// stdout carries the protocol.
	logger := logging.New(cfg.Log.Format, cfg.Log.Level, os.Stderr)

	ix, err := dataset.Load(context.Background(), cfg.DataDir)
	if err != nil {
		logger.Error("load dataset", "source", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	st := ix.Stats()
	logger.Info("data loaded", "source", cfg.DataDir, "people", st.People, "movies", st.Movies, "cast_links", st.CastLinks)

	s := server.NewMCPServer("degrees-mcp", "0.1.0")

	h := &handler{ix: ix, logger: logger}
	if *searchRate > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(*searchRate), max(*searchBurst, 1))
	}
	s.AddTool(resolveActorTool(), h.resolveActor)
	s.AddTool(shortestPathTool(), h.shortestPath)

	if err := server.ServeStdio(s); err != nil {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}

type handler struct {
	ix      *movies.Index
	logger  *slog.Logger
	limiter *rate.Limiter // nil means unlimited
}

// Tool definitions.

func resolveActorTool() mcp.Tool {
	return mcp.NewTool("resolve_actor",
		mcp.WithDescription(
			"Look up actors by name. Returns every matching person with id, "+
				"name and birth year. Use the id with shortest_path when a name "+
				"is shared by several people.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("actor name, case-insensitive, e.g. Kevin Bacon"),
		),
	)
}

func shortestPathTool() mcp.Tool {
	return mcp.NewTool("shortest_path",
		mcp.WithDescription(
			"Find the shortest chain of movies connecting two actors. "+
				"Each step names two actors and a movie they starred in together. "+
				"Fails when a name is ambiguous; the error lists the candidate ids.",
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("first actor: name or person id"),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("second actor: name or person id"),
		),
		mcp.WithString("format",
			mcp.Description("output format: text (default), markdown or html"),
		),
	)
}

// Tool handlers.
// Handler signatures are dictated by mcp-go's ToolHandlerFunc type.

func (h *handler) resolveActor(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:gocritic // signature required by mcp-go
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	ids := h.ix.Resolve(name)
	if len(ids) == 0 {
		if p, err := h.ix.PersonByID(strings.TrimSpace(name)); err == nil {
			ids = []string{p.ID}
		}
	}
	if len(ids) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no actor named %q", name)), nil
	}

	lines, err := report.Candidates(h.ix, ids)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolve failed: %v", err)), nil
	}
	return mcp.NewToolResultText(lines), nil
}

func (h *handler) shortestPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:gocritic // signature required by mcp-go
	rawSource, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError("source is required"), nil
	}
	rawTarget, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError("target is required"), nil
	}
	format := req.GetString("format", report.FormatText)
	if !report.ValidFormat(format) {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format: %s (valid: text, markdown, html)", format)), nil
	}

	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("rate limited: %v", err)), nil
		}
	}

	source, errResult := h.lookup(rawSource)
	if errResult != nil {
		return errResult, nil
	}
	target, errResult := h.lookup(rawTarget)
	if errResult != nil {
		return errResult, nil
	}

	expanded := 0
	path, err := graph.ShortestPath(h.ix, source, target, graph.SearchOptions{
		OnExpand: func(graph.Node) { expanded++ },
	})
	connected := !errors.Is(err, graph.ErrNotConnected)
	if err != nil && connected {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	h.log().Debug("search finished", "source", source, "target", target, "expanded", expanded, "connected", connected)

	rep, err := report.Build(h.ix, source, target, path, connected)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	out, err := rep.Render(format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

// lookup resolves a name or id, turning resolver failures into tool errors.
func (h *handler) lookup(raw string) (string, *mcp.CallToolResult) {
	id, err := h.ix.Lookup(raw)
	if err == nil {
		return id, nil
	}

	var amb *movies.AmbiguousNameError
	if errors.As(err, &amb) {
		lines, cerr := report.Candidates(h.ix, amb.Candidates)
		if cerr != nil {
			return "", mcp.NewToolResultError(cerr.Error())
		}
		return "", mcp.NewToolResultError(fmt.Sprintf("%v; pass one of these ids instead:\n%s", err, lines))
	}
	if errors.Is(err, movies.ErrNameNotFound) {
		return "", mcp.NewToolResultError(fmt.Sprintf("no actor named %q", raw))
	}
	return "", mcp.NewToolResultError(err.Error())
}

func (h *handler) log() *slog.Logger {
	if h.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.logger
}
