package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mvp-joe/chaincheck/internal/validator"
)

const apiUtilSource = `package rest;

public class ApiUtil {
	public Response createAppointmentWithAuth(String endpoint, Map<String, String> body) {
		String requestBody = "{ \"FirstName\": \"x\" }";
		return RestAssured.given().header("Authorization", auth()) // given
				.body(requestBody).post(BASE_URL + endpoint)
				.then().extract().response();
	}

	public Response unusedHelper() {
		// given then extract response
		return null;
	}
}
`

// setupProject writes the fixture into a temp project and returns tool options rooted there.
func setupProject(t *testing.T) ToolOptions {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "src", "rest")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ApiUtil.java"), []byte(apiUtilSource), 0644))

	return ToolOptions{Root: root, Logger: zaptest.NewLogger(t)}
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args interface{}) *mcp.CallToolResult {
	t.Helper()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "content should be text")
	return textContent.Text
}

func TestAddTools_Registration(t *testing.T) {
	t.Parallel()

	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	opts := setupProject(t)

	require.NotPanics(t, func() {
		AddValidateTool(mcpServer, opts)
		AddExtractTool(mcpServer, opts)
	})
}

func TestValidateHandler(t *testing.T) {
	t.Parallel()

	opts := setupProject(t)
	handler := createValidateHandler(opts)

	tests := []struct {
		name       string
		args       map[string]interface{}
		wantValid  bool
		wantReason validator.Reason
	}{
		{
			name: "ordered tokens",
			args: map[string]interface{}{
				"file":   "src/rest/ApiUtil.java",
				"method": "createAppointmentWithAuth",
				"tokens": []interface{}{"given", "then", "extract", "response"},
			},
			wantValid:  true,
			wantReason: validator.ReasonOK,
		},
		{
			name: "tokens as JSON string",
			args: map[string]interface{}{
				"file":   "src/rest/ApiUtil.java",
				"method": "createAppointmentWithAuth",
				"tokens": `["given", "post", "then"]`,
			},
			wantValid:  true,
			wantReason: validator.ReasonOK,
		},
		{
			name: "tokens as comma separated string",
			args: map[string]interface{}{
				"file":   "src/rest/ApiUtil.java",
				"method": "createAppointmentWithAuth",
				"tokens": "given,then",
			},
			wantValid:  true,
			wantReason: validator.ReasonOK,
		},
		{
			name: "order violation",
			args: map[string]interface{}{
				"file":   "src/rest/ApiUtil.java",
				"method": "createAppointmentWithAuth",
				"tokens": []interface{}{"then", "given"},
			},
			wantValid:  false,
			wantReason: validator.ReasonTokenNotFound,
		},
		{
			name: "missing method",
			args: map[string]interface{}{
				"file":   "src/rest/ApiUtil.java",
				"method": "deleteAppointmentWithAuth",
				"tokens": []interface{}{"given"},
			},
			wantValid:  false,
			wantReason: validator.ReasonMethodNotFound,
		},
		{
			name: "comment tokens count by default",
			args: map[string]interface{}{
				"file":   "src/rest/ApiUtil.java",
				"method": "unusedHelper",
				"tokens": []interface{}{"given", "then"},
			},
			wantValid:  true,
			wantReason: validator.ReasonOK,
		},
		{
			name: "skip_comments ignores comment tokens",
			args: map[string]interface{}{
				"file":          "src/rest/ApiUtil.java",
				"method":        "unusedHelper",
				"tokens":        []interface{}{"given", "then"},
				"skip_comments": "true",
			},
			wantValid:  false,
			wantReason: validator.ReasonTokenNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, handler, tt.args)
			require.False(t, result.IsError, resultText(t, result))

			var res validator.Result
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &res))
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantReason, res.Reason)
			assert.Equal(t, "src/rest/ApiUtil.java", res.File)
		})
	}
}

func TestValidateHandler_UserErrors(t *testing.T) {
	t.Parallel()

	opts := setupProject(t)
	handler := createValidateHandler(opts)

	tests := []struct {
		name    string
		args    interface{}
		wantMsg string
	}{
		{
			name:    "arguments not an object",
			args:    "not a map",
			wantMsg: "invalid arguments format",
		},
		{
			name:    "missing method",
			args:    map[string]interface{}{"file": "src/rest/ApiUtil.java", "tokens": []interface{}{"given"}},
			wantMsg: "method parameter is required",
		},
		{
			name:    "missing tokens",
			args:    map[string]interface{}{"file": "src/rest/ApiUtil.java", "method": "createAppointmentWithAuth"},
			wantMsg: "tokens parameter is required",
		},
		{
			name:    "missing file",
			args:    map[string]interface{}{"method": "createAppointmentWithAuth", "tokens": []interface{}{"given"}},
			wantMsg: "file parameter is required",
		},
		{
			name:    "path escapes root",
			args:    map[string]interface{}{"file": "../outside/ApiUtil.java", "method": "m", "tokens": []interface{}{"given"}},
			wantMsg: "outside project root",
		},
		{
			name:    "file does not exist",
			args:    map[string]interface{}{"file": "src/rest/Missing.java", "method": "m", "tokens": []interface{}{"given"}},
			wantMsg: validator.ErrIO.Error(),
		},
		{
			name:    "empty token",
			args:    map[string]interface{}{"file": "src/rest/ApiUtil.java", "method": "createAppointmentWithAuth", "tokens": []interface{}{"given", ""}},
			wantMsg: validator.ErrInvalidArgument.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, handler, tt.args)
			assert.True(t, result.IsError, "should be error result")
			assert.Contains(t, resultText(t, result), tt.wantMsg)
		})
	}
}

func TestExtractHandler(t *testing.T) {
	t.Parallel()

	opts := setupProject(t)
	handler := createExtractHandler(opts)

	result := callTool(t, handler, map[string]interface{}{
		"file":   "src/rest/ApiUtil.java",
		"method": "createAppointmentWithAuth",
	})
	require.False(t, result.IsError, resultText(t, result))

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.True(t, resp.Found)
	assert.Equal(t, "src/rest/ApiUtil.java", resp.File)
	assert.Equal(t, "String endpoint, Map<String, String> body", resp.Params)
	assert.Equal(t, 4, resp.StartLine)
	assert.Equal(t, 9, resp.EndLine)
	assert.True(t, len(resp.Body) > 2 && resp.Body[0] == '{' && resp.Body[len(resp.Body)-1] == '}')
	assert.Contains(t, resp.Body, `"{ \"FirstName\": \"x\" }"`)
	assert.NotContains(t, resp.Body, "unusedHelper")
}

func TestExtractHandler_NotFound(t *testing.T) {
	t.Parallel()

	opts := setupProject(t)
	handler := createExtractHandler(opts)

	result := callTool(t, handler, map[string]interface{}{
		"file":   "src/rest/ApiUtil.java",
		"method": "missing",
	})
	require.False(t, result.IsError)

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.False(t, resp.Found)
	assert.Empty(t, resp.Body)
}

func TestExtractHandler_OutsideRoot(t *testing.T) {
	t.Parallel()

	opts := setupProject(t)
	handler := createExtractHandler(opts)

	result := callTool(t, handler, map[string]interface{}{
		"file":   filepath.Join(filepath.Dir(opts.Root), "Other.java"),
		"method": "m",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "outside project root")
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/project")

	tests := []struct {
		name    string
		file    string
		want    string
		wantErr error
	}{
		{name: "relative", file: "src/A.java", want: filepath.FromSlash("/project/src/A.java")},
		{name: "absolute inside", file: filepath.FromSlash("/project/A.java"), want: filepath.FromSlash("/project/A.java")},
		{name: "dot segments inside", file: "src/../A.java", want: filepath.FromSlash("/project/A.java")},
		{name: "parent", file: "../A.java", wantErr: ErrOutsideRoot},
		{name: "absolute outside", file: filepath.FromSlash("/other/A.java"), wantErr: ErrOutsideRoot},
		{name: "sibling prefix", file: filepath.FromSlash("/project-other/A.java"), wantErr: ErrOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePath(root, tt.file)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
