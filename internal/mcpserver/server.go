// Package mcpserver exposes navcheck validation as a Model Context Protocol
// tool so that editors and assistants can check links while writing docs.
package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nao1215/navcheck/internal/config"
	"github.com/nao1215/navcheck/internal/pipeline"
	"github.com/nao1215/navcheck/internal/report"
)

// ToolName is the name of the validation tool.
const ToolName = "navcheck_validate"

// Server serves navcheck tools over MCP.
type Server struct {
	name    string
	version string
	logger  *slog.Logger
}

// New creates a Server advertising name and version to clients.
// Logs must not go to stdout, which carries the protocol.
func New(name, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{name: name, version: version, logger: logger}
}

// MCPServer builds the underlying server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(
		s.name,
		s.version,
		server.WithToolCapabilities(true),
	)
	srv.AddTool(ValidateTool(), s.handleValidate)
	return srv
}

// ServeStdio serves until stdin is closed or ctx is done.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("MCP server ready", "version", s.version, "transport", "stdio")

	stdio := server.NewStdioServer(s.MCPServer())
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		s.logger.Info("MCP server stopped")
		return nil
	}
	return err
}

// ValidateTool describes the navcheck_validate tool.
func ValidateTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Validate relative links and heading anchors in a markdown documentation tree. "+
			"Returns every broken link with file, line, category, message and a suggested fix."),
		mcp.WithString("root", mcp.Required(), mcp.Description("Documentation root directory")),
		mcp.WithBoolean("strict", mcp.Description("Treat warnings as failures")),
		mcp.WithArray("exclude", mcp.Description("Glob patterns of documents to skip"),
			mcp.WithStringItems()),
		mcp.WithString("format", mcp.Description("Result format: json (default), text or markdown"),
			mcp.Enum(config.FormatJSON, config.FormatText, config.FormatMarkdown)),
	)
}

// handleValidate runs one validation and returns the report as text.
// Broken links are a successful tool call; only unusable input is an error result.
func (s *Server) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("root")
	if err != nil || root == "" {
		return mcp.NewToolResultError("root is required"), nil //nolint:nilerr
	}

	cfg := config.NewConfig()
	cfg.Root = root
	cfg.Format = getString(req, "format", config.FormatJSON)

	given := map[string]bool{}
	if v, ok := getBool(req, "strict"); ok {
		cfg.Strict = v
		given[config.FlagStrict] = true
	}
	if v := getStrings(req, "exclude"); v != nil {
		cfg.Exclude = v
		given[config.FlagExclude] = true
	}

	file, err := config.LoadConfigFile(filepath.Join(root, config.DefaultConfigFile))
	switch {
	case err == nil:
		file.Apply(cfg, func(name string) bool { return given[name] })
	case !errors.Is(err, config.ErrConfigNotFound):
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := cfg.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("configuration error: %v", err)), nil
	}

	run, err := pipeline.Validate(ctx, cfg.Root, cfg.Strict,
		[]pipeline.Option{pipeline.WithLogger(s.logger)},
		pipeline.WithPipelineExtensions(cfg.Extensions),
		pipeline.WithPipelineExclude(cfg.Exclude),
		pipeline.WithPipelineIgnoreTargets(cfg.IgnoreTargets),
		pipeline.WithPipelineWorkers(cfg.Workers),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Debug("validation finished", "root", run.Root, "findings", run.TotalFindings())

	var buf bytes.Buffer
	w, err := report.NewWriter(&buf, cfg.Format, report.Options{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := w.Write(run); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
