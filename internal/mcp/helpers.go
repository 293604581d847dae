package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvp-joe/chaincheck/internal/validator"
)

// ErrOutsideRoot indicates a tool argument pointing outside the project root.
var ErrOutsideRoot = errors.New("path is outside project root")

// resolvePath resolves file against root. Absolute paths are accepted only when
// they stay inside root.
func resolvePath(root, file string) (string, error) {
	if file == "" {
		return "", fmt.Errorf("file parameter is required")
	}

	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, file)
	}
	return path, nil
}

// relativePath returns path relative to root for responses, or path itself if
// that is not possible.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// isUserError reports whether err should be returned to the client as a tool
// error rather than failing the request.
func isUserError(err error) bool {
	return errors.Is(err, ErrOutsideRoot) ||
		errors.Is(err, validator.ErrInvalidArgument) ||
		errors.Is(err, validator.ErrIO) ||
		errors.Is(err, validator.ErrMalformedSource)
}

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
