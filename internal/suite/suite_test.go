package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiSuite = `
checks:
  - name: create appointment
    file: src/main/java/rest/ApiUtil.java
    method: createAppointmentWithAuth
    tokens: [given, then, extract, response]
  - file: src/main/java/rest/ApiUtil.java
    method: cancelAppointmentWithAuth
    tokens: [given, put, then]
    skip_comments: true
  - file: /abs/Other.java
    method: run
    tokens: [start]
`

func TestParse(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(apiSuite), "/project")
	require.NoError(t, err)
	require.Len(t, s.Checks, 3)

	first := s.Checks[0]
	assert.Equal(t, "create appointment", first.Name)
	assert.Equal(t, "createAppointmentWithAuth", first.Method)
	assert.Equal(t, []string{"given", "then", "extract", "response"}, first.Tokens)
	assert.Nil(t, first.SkipComments)

	second := s.Checks[1]
	assert.Equal(t, "src/main/java/rest/ApiUtil.java#cancelAppointmentWithAuth", second.Name)
	require.NotNil(t, second.SkipComments)
	assert.True(t, *second.SkipComments)
}

func TestSuite_ResolveAndFiles(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(apiSuite), "/project")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/project", "src/main/java/rest/ApiUtil.java"), s.Resolve(s.Checks[0]))
	assert.Equal(t, "/abs/Other.java", s.Resolve(s.Checks[2]))
	assert.Equal(t, []string{
		filepath.Join("/project", "src/main/java/rest/ApiUtil.java"),
		"/abs/Other.java",
	}, s.Files())
}

func TestSuite_Affected(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(apiSuite), "/project")
	require.NoError(t, err)

	affected := s.Affected([]string{"/project/src/main/java/rest/../rest/ApiUtil.java"})
	require.Len(t, affected, 2)
	assert.Equal(t, "create appointment", affected[0].Name)

	assert.Empty(t, s.Affected([]string{"/project/README.md"}))
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		want    error
		wantMsg string
	}{
		{
			name: "empty document",
			yaml: "",
			want: ErrNoChecks,
		},
		{
			name: "empty check list",
			yaml: "checks: []\n",
			want: ErrNoChecks,
		},
		{
			name:    "missing fields",
			yaml:    "checks:\n  - name: incomplete\n",
			want:    ErrInvalidCheck,
			wantMsg: "method is required",
		},
		{
			name:    "empty token",
			yaml:    "checks:\n  - file: A.java\n    method: m\n    tokens: [given, \"\"]\n",
			want:    ErrInvalidCheck,
			wantMsg: "token #2 is empty",
		},
		{
			name: "duplicate names",
			yaml: "checks:\n" +
				"  - {name: same, file: A.java, method: a, tokens: [x]}\n" +
				"  - {name: same, file: B.java, method: b, tokens: [y]}\n",
			want:    ErrDuplicateName,
			wantMsg: "checks #1 and #2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := Parse([]byte(tt.yaml), ".")
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("checks:\n  - file: A.java\n    methd: m\n    tokens: [x]\n"), ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse suite")
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yml")
	require.NoError(t, os.WriteFile(path, []byte(apiSuite), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path)
	assert.Equal(t, dir, s.Dir)
	assert.Equal(t, filepath.Join(dir, "src/main/java/rest/ApiUtil.java"), s.Resolve(s.Checks[0]))

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read suite")
}
