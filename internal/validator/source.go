package validator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Source is the immutable text of one file, loaded for a single validation call.
// All offsets handed out by this package are byte offsets into Text.
type Source struct {
	Path string
	Text string
}

// Position is a 1-based line/column location inside a Source.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// NewSource wraps already-loaded text. Path is only used in diagnostics.
func NewSource(path, text string) *Source {
	return &Source{Path: path, Text: text}
}

// Load reads the complete file at path. Any failure is wrapped with ErrIO and is
// fatal for the calling validation; there is no retry and no partial result.
// The read is abandoned if ctx is done first.
func Load(ctx context.Context, path string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrIO, path)
	}

	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		data, err := os.ReadFile(path)
		done <- readResult{data: data, err: err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, path, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, res.err)
	}
	if !utf8.Valid(res.data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrIO, path)
	}

	return NewSource(path, string(res.data)), nil
}

// Position converts a byte offset to a line/column pair. Offsets outside the
// text are clamped.
func (s *Source) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.Text) {
		offset = len(s.Text)
	}
	prefix := s.Text[:offset]
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return Position{
		Line:   strings.Count(prefix, "\n") + 1,
		Column: utf8.RuneCountInString(prefix[lineStart:]) + 1,
	}
}
