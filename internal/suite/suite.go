// Package suite loads check-suite files: YAML lists of methods that must
// contain an ordered sequence of tokens.
package suite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoChecks indicates a suite without any checks
	ErrNoChecks = errors.New("suite has no checks")

	// ErrInvalidCheck indicates a check with missing or unusable fields
	ErrInvalidCheck = errors.New("invalid check")

	// ErrDuplicateName indicates two checks share a name
	ErrDuplicateName = errors.New("duplicate check name")
)

// Check is one method validation: File's Method must contain Tokens in order.
type Check struct {
	Name   string   `yaml:"name,omitempty" json:"name"`
	File   string   `yaml:"file" json:"file"`
	Method string   `yaml:"method" json:"method"`
	Tokens []string `yaml:"tokens" json:"tokens"`

	// SkipComments overrides the configured default when set.
	SkipComments *bool `yaml:"skip_comments,omitempty" json:"skip_comments,omitempty"`
}

// Suite is an ordered list of checks. Relative check files are resolved
// against Dir, the directory of the suite file.
type Suite struct {
	Path   string  `yaml:"-" json:"path"`
	Dir    string  `yaml:"-" json:"-"`
	Checks []Check `yaml:"checks" json:"checks"`
}

// Load reads and validates the suite file at path. The suite's Path and Dir are
// absolute so check files compare equal to watcher event paths.
func Load(path string) (*Suite, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve suite path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}

	s, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Parse decodes a suite from YAML. Unknown keys are rejected so typos in a
// suite fail loudly instead of silently skipping a check.
func Parse(data []byte, dir string) (*Suite, error) {
	s := &Suite{Dir: dir}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse suite: %w", err)
	}

	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// applyDefaults names unnamed checks after their target.
func (s *Suite) applyDefaults() {
	for i := range s.Checks {
		c := &s.Checks[i]
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			c.Name = c.File + "#" + c.Method
		}
	}
}

// Validate checks every check and reports all problems at once.
func (s *Suite) Validate() error {
	if len(s.Checks) == 0 {
		return ErrNoChecks
	}

	var errs []error
	seen := make(map[string]int, len(s.Checks))
	for i, c := range s.Checks {
		label := fmt.Sprintf("check #%d (%s)", i+1, c.Name)

		if strings.TrimSpace(c.File) == "" {
			errs = append(errs, fmt.Errorf("%w: %s: file is required", ErrInvalidCheck, label))
		}
		if strings.TrimSpace(c.Method) == "" {
			errs = append(errs, fmt.Errorf("%w: %s: method is required", ErrInvalidCheck, label))
		}
		if len(c.Tokens) == 0 {
			errs = append(errs, fmt.Errorf("%w: %s: at least one token is required", ErrInvalidCheck, label))
		}
		for j, tok := range c.Tokens {
			if tok == "" {
				errs = append(errs, fmt.Errorf("%w: %s: token #%d is empty", ErrInvalidCheck, label, j+1))
			}
		}

		if prev, ok := seen[c.Name]; ok {
			errs = append(errs, fmt.Errorf("%w: %q used by checks #%d and #%d", ErrDuplicateName, c.Name, prev+1, i+1))
		} else {
			seen[c.Name] = i
		}
	}

	return errors.Join(errs...)
}

// Resolve returns the check's file path, resolving relative paths against the
// suite directory.
func (s *Suite) Resolve(c Check) string {
	if filepath.IsAbs(c.File) || s.Dir == "" {
		return filepath.Clean(c.File)
	}
	return filepath.Join(s.Dir, c.File)
}

// Files returns the distinct resolved file paths referenced by the suite.
func (s *Suite) Files() []string {
	seen := make(map[string]bool, len(s.Checks))
	files := make([]string, 0, len(s.Checks))
	for _, c := range s.Checks {
		path := s.Resolve(c)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	return files
}

// Affected returns the checks whose file is one of the given paths.
func (s *Suite) Affected(paths []string) []Check {
	changed := make(map[string]bool, len(paths))
	for _, p := range paths {
		changed[filepath.Clean(p)] = true
	}

	var checks []Check
	for _, c := range s.Checks {
		if changed[s.Resolve(c)] {
			checks = append(checks, c)
		}
	}
	return checks
}
