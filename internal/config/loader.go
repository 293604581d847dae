package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a configuration loader for the given root directory.
// If configFile is non-empty it is read instead of searching .chaincheck/.
func NewLoader(rootDir, configFile string) Loader {
	return &loader{
		rootDir:    rootDir,
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CHAINCHECK_*)
// 2. Config file (.chaincheck/config.yml or .chaincheck/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".chaincheck"))
	}

	// Replace . with _ in env var names (e.g., CHAINCHECK_WATCH_DEBOUNCE)
	v.SetEnvPrefix("CHAINCHECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	for _, key := range []string{
		"suite",
		"concurrency",
		"read_timeout",
		"skip_comments",
		"log.level",
		"watch.patterns",
		"watch.ignore",
		"watch.debounce",
	} {
		v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable when searching - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Relative suite paths are relative to the project root
	if cfg.Suite != "" && !filepath.IsAbs(cfg.Suite) {
		cfg.Suite = filepath.Join(l.rootDir, cfg.Suite)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("suite", defaults.Suite)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("read_timeout", defaults.ReadTimeout)
	v.SetDefault("skip_comments", defaults.SkipComments)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("watch.patterns", defaults.Watch.Patterns)
	v.SetDefault("watch.ignore", defaults.Watch.Ignore)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
}
