package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mvp-joe/chaincheck/internal/validator"
)

// ToolOptions are shared by the chaincheck tools.
type ToolOptions struct {
	// Root is the project root. Tool file arguments are resolved against it and
	// may not leave it.
	Root string

	// SkipComments is the default when a request does not set skip_comments.
	SkipComments bool

	ReadTimeout time.Duration
	Logger      *zap.Logger
}

func (o ToolOptions) validator(skipComments bool) *validator.Validator {
	return validator.New(
		validator.WithSkipComments(skipComments),
		validator.WithReadTimeout(o.ReadTimeout),
		validator.WithLogger(o.Logger),
	)
}

// ValidateRequest holds the chaincheck_validate arguments.
type ValidateRequest struct {
	File         string   `json:"file"`
	Method       string   `json:"method"`
	Tokens       []string `json:"tokens"`
	SkipComments *bool    `json:"skip_comments,omitempty"`
}

// ExtractRequest holds the chaincheck_extract arguments.
type ExtractRequest struct {
	File   string `json:"file"`
	Method string `json:"method"`
}

// ExtractResponse is the chaincheck_extract result.
type ExtractResponse struct {
	File      string `json:"file"`
	Method    string `json:"method"`
	Found     bool   `json:"found"`
	Params    string `json:"params,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	Body      string `json:"body,omitempty"`
}

// AddValidateTool registers the chaincheck_validate tool with an MCP server.
func AddValidateTool(s *server.MCPServer, opts ToolOptions) {
	tool := mcp.NewTool(
		"chaincheck_validate",
		mcp.WithDescription(`Check that a method contains an ordered sequence of call tokens.

The method is located by name (first declaration wins), its body is delimited by brace counting that ignores braces in comments and literals, and each token must appear after the previous one.

Example: {"file": "src/main/java/rest/ApiUtil.java", "method": "createAppointmentWithAuth", "tokens": ["given", "then", "extract", "response"]}

The result has valid=true only when every token is found in order. reason is one of ok, method_not_found, token_not_found.`),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Source file, relative to the project root")),
		mcp.WithString("method",
			mcp.Required(),
			mcp.Description("Name of the method to check")),
		mcp.WithArray("tokens",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Substrings that must appear in the method body in this order")),
		mcp.WithBoolean("skip_comments",
			mcp.Description("Ignore tokens that only appear inside comments")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createValidateHandler(opts))
}

// createValidateHandler creates the handler function for the chaincheck_validate tool.
func createValidateHandler(opts ToolOptions) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req ValidateRequest
		if err := bindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Method == "" {
			return mcp.NewToolResultError("method parameter is required"), nil
		}
		if len(req.Tokens) == 0 {
			return mcp.NewToolResultError("tokens parameter is required"), nil
		}

		path, err := resolvePath(opts.Root, req.File)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		skip := opts.SkipComments
		if req.SkipComments != nil {
			skip = *req.SkipComments
		}

		res, err := opts.validator(skip).Validate(ctx, path, req.Method, req.Tokens)
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}
		res.File = relativePath(opts.Root, path)

		return marshalToolResponse(res)
	}
}

// AddExtractTool registers the chaincheck_extract tool with an MCP server.
func AddExtractTool(s *server.MCPServer, opts ToolOptions) {
	tool := mcp.NewTool(
		"chaincheck_extract",
		mcp.WithDescription("Return the body of a method, braces included, with its line range. Use to see what chaincheck_validate matches tokens against."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Source file, relative to the project root")),
		mcp.WithString("method",
			mcp.Required(),
			mcp.Description("Name of the method to extract")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createExtractHandler(opts))
}

// createExtractHandler creates the handler function for the chaincheck_extract tool.
func createExtractHandler(opts ToolOptions) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req ExtractRequest
		if err := bindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Method == "" {
			return mcp.NewToolResultError("method parameter is required"), nil
		}

		path, err := resolvePath(opts.Root, req.File)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		sig, body, err := opts.validator(false).ExtractMethod(ctx, path, req.Method)
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		resp := ExtractResponse{
			File:   relativePath(opts.Root, path),
			Method: req.Method,
			Found:  sig.Found,
		}
		if body != nil {
			resp.Params = sig.Params
			resp.StartLine = body.StartLine
			resp.EndLine = body.EndLine
			resp.Body = body.Text
		}
		return marshalToolResponse(resp)
	}
}
