// Package config provides configuration loading for chaincheck.
//
// Configuration hierarchy (highest to lowest priority):
//  1. Environment variables (CHAINCHECK_*)
//  2. Project config (.chaincheck/config.yml or .chaincheck/config.yaml)
//  3. Built-in defaults
//
// Nested keys map to environment variables with underscores,
// e.g. watch.debounce -> CHAINCHECK_WATCH_DEBOUNCE.
package config

import "time"

// DefaultSuiteFile is the suite path used when none is configured, relative to the root.
const DefaultSuiteFile = ".chaincheck/suite.yml"

// Config represents the complete chaincheck configuration.
type Config struct {
	// Suite is the check-suite file run by `check` and `watch`.
	Suite string `yaml:"suite" mapstructure:"suite"`

	// Concurrency bounds how many checks run at once.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	// ReadTimeout bounds each source file read. Zero disables the timeout.
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`

	// SkipComments masks comments in method bodies before matching tokens.
	SkipComments bool `yaml:"skip_comments" mapstructure:"skip_comments"`

	Log   LogConfig   `yaml:"log" mapstructure:"log"`
	Watch WatchConfig `yaml:"watch" mapstructure:"watch"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn or error
}

// WatchConfig configures which file changes re-run checks.
type WatchConfig struct {
	Patterns []string      `yaml:"patterns" mapstructure:"patterns"` // glob patterns of watched files
	Ignore   []string      `yaml:"ignore" mapstructure:"ignore"`     // glob patterns never watched
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"` // quiet period before re-running
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Suite:        DefaultSuiteFile,
		Concurrency:  4,
		ReadTimeout:  10 * time.Second,
		SkipComments: false,
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Patterns: []string{
				"**/*.java",
				"**/*.kt",
				"**/*.groovy",
				"**/*.scala",
				"**/*.cs",
				"**/*.js",
				"**/*.ts",
				"**/*.go",
			},
			Ignore: []string{
				".git/**",
				"target/**",
				"build/**",
				"out/**",
				"node_modules/**",
			},
			Debounce: 500 * time.Millisecond,
		},
	}
}
