package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptySuite indicates a missing suite path
	ErrEmptySuite = errors.New("empty suite path")

	// ErrInvalidConcurrency indicates a non-positive concurrency limit
	ErrInvalidConcurrency = errors.New("invalid concurrency")

	// ErrInvalidTimeout indicates a negative read timeout
	ErrInvalidTimeout = errors.New("invalid read timeout")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidPattern indicates a watch glob that does not compile
	ErrInvalidPattern = errors.New("invalid watch pattern")

	// ErrInvalidDebounce indicates a non-positive debounce period
	ErrInvalidDebounce = errors.New("invalid watch debounce")
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Suite) == "" {
		errs = append(errs, fmt.Errorf("%w: suite is required", ErrEmptySuite))
	}

	if cfg.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidConcurrency, cfg.Concurrency))
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: read_timeout cannot be negative, got %s", ErrInvalidTimeout, cfg.ReadTimeout))
	}

	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Errorf("%w: must be debug, info, warn or error, got '%s'", ErrInvalidLogLevel, cfg.Log.Level))
	}

	if err := validateWatch(&cfg.Watch); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateWatch(cfg *WatchConfig) error {
	var errs []error

	if len(cfg.Patterns) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one pattern required", ErrInvalidPattern))
	}

	for _, pattern := range append(append([]string{}, cfg.Patterns...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	if cfg.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("%w: debounce must be positive, got %s", ErrInvalidDebounce, cfg.Debounce))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The sentinel errors stay reachable through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	// Flatten nested validation errors so each problem gets its own line
	var flat []error
	for _, err := range errs {
		if ve, ok := err.(*validationError); ok {
			flat = append(flat, ve.errs...)
			continue
		}
		flat = append(flat, err)
	}

	return &validationError{errs: flat}
}

type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *validationError) Unwrap() []error {
	return e.errs
}
