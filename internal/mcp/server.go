// Package mcp exposes the method validator as MCP tools over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name    string
	Version string
	Tools   ToolOptions
}

// Server manages the MCP server lifecycle.
type Server struct {
	config ServerConfig
	logger *zap.Logger
	mcp    *server.MCPServer
}

// NewServer creates an MCP server with the chaincheck tools registered.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Name == "" {
		config.Name = "chaincheck"
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.Tools.Logger == nil {
		config.Tools.Logger = zap.NewNop()
	}

	root, err := filepath.Abs(config.Tools.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}
	config.Tools.Root = root

	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	AddValidateTool(mcpServer, config.Tools)
	AddExtractTool(mcpServer, config.Tools)

	return &Server{
		config: config,
		logger: config.Tools.Logger,
		mcp:    mcpServer,
	}, nil
}

// Root returns the absolute project root the tools are confined to.
func (s *Server) Root() string {
	return s.config.Tools.Root
}

// Serve runs the server on stdin/stdout and blocks until ctx is cancelled or
// the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.Listen(ctx, os.Stdin, os.Stdout)
}

// Listen runs the server on the given streams.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting MCP server on stdio", zap.String("root", s.Root()))
		errCh <- stdio.Listen(ctx, in, out)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Received shutdown signal, stopping gracefully")
		return nil
	}
}
