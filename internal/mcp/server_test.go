package mcp

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewServer(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewServer(ServerConfig{Version: "1.2.3", Tools: ToolOptions{Root: root}})
	require.NoError(t, err)
	assert.Equal(t, root, s.Root())
	assert.Equal(t, "chaincheck", s.config.Name)
}

func TestNewServer_RelativeRoot(t *testing.T) {
	t.Parallel()

	s, err := NewServer(ServerConfig{Tools: ToolOptions{Root: "."}})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(s.Root()))
}

func TestNewServer_InvalidRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := NewServer(ServerConfig{Tools: ToolOptions{Root: filepath.Join(dir, "missing")}})
	assert.Error(t, err)

	_, err = NewServer(ServerConfig{Tools: ToolOptions{Root: file}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestServer_ListenStopsOnCancel(t *testing.T) {
	t.Parallel()

	s, err := NewServer(ServerConfig{Tools: ToolOptions{Root: t.TempDir(), Logger: zaptest.NewLogger(t)}})
	require.NoError(t, err)

	in, inWriter := io.Pipe()
	t.Cleanup(func() { _ = inWriter.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Listen(ctx, in, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
