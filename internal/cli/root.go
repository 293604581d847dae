package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mvp-joe/chaincheck/internal/config"
)

var (
	cfgFile string
	verbose bool
	rootDir string

	// Set in PersistentPreRunE for every subcommand.
	cfg    *config.Config
	logger = zap.NewNop()
)

// ExitError ends the process with Code. Message, if set, is printed to stderr.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// errChecksFailed reports a completed run in which a method did not validate.
var errChecksFailed = &ExitError{Code: 1}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chaincheck",
	Short: "Verify that methods perform an expected sequence of calls",
	Long: `chaincheck locates a method in a source file, delimits its body with
comment- and string-aware brace counting, and verifies that a list of tokens
occurs in that body in order.

Use it to keep request-building helpers honest, e.g. that
createAppointmentWithAuth still goes through given -> then -> extract -> response.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := executeContext(ctx, os.Stderr)
	stop()
	os.Exit(code)
}

func executeContext(ctx context.Context, stderr io.Writer) int {
	return exitCode(rootCmd.ExecuteContext(ctx), stderr)
}

// exitCode maps a command error to a process exit code: 0 on success, the
// ExitError code for failed checks and 2 for anything that kept a check from
// running.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(stderr, exitErr.Message)
		}
		return exitErr.Code
	}

	fmt.Fprintln(stderr, "Error:", err)
	return 2
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <root>/.chaincheck/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "project root")
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project root: %w", err)
	}
	rootDir = root

	loaded, err := config.NewLoader(rootDir, cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = loaded

	l, err := newLogger(cfg.Log.Level, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l

	logger.Debug("Configuration loaded",
		zap.String("root", rootDir),
		zap.String("suite", cfg.Suite),
		zap.Int("concurrency", cfg.Concurrency))
	return nil
}

// newLogger builds a production logger writing to stderr. verbose forces debug level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.DisableStacktrace = true

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	return zapCfg.Build()
}
