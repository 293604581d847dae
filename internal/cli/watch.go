package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mvp-joe/chaincheck/internal/runner"
	"github.com/mvp-joe/chaincheck/internal/suite"
	"github.com/mvp-joe/chaincheck/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [suite.yml]",
	Short: "Re-run checks when their source files change",
	Long: `Run the suite once, then watch the project root and re-run the checks
whose files change. Editing the suite file reloads it and re-runs everything.
Stop with Ctrl-C.

Watched files and the debounce period come from the watch section of the
configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := loadSuite(args)
	if err != nil {
		return err
	}

	r := newRunner(nil)
	report, err := r.Run(ctx, s)
	if err != nil {
		return err
	}
	printReport(out, report)

	files, err := watcher.NewFileWatcher(watcher.Options{
		Root:     rootDir,
		Patterns: cfg.Watch.Patterns,
		Ignore:   cfg.Watch.Ignore,
		Files:    watchedFiles(s),
		Debounce: cfg.Watch.Debounce,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	coordinator := watcher.NewWatchCoordinator(files, r, s, suite.Load, func(report *runner.Report) {
		fmt.Fprintln(out)
		printReport(out, report)
	}, logger)

	logger.Info("Watching for changes", zap.String("root", rootDir), zap.Duration("debounce", cfg.Watch.Debounce))
	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %s for changes (Ctrl-C to stop)\n", rootDir)

	return coordinator.Start(ctx)
}

// watchedFiles lists the suite file and every checked file, so changes are
// reported even when they fall outside the watch patterns or the root.
func watchedFiles(s *suite.Suite) []string {
	return append([]string{s.Path}, s.Files()...)
}
