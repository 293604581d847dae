package watcher

import (
	"context"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/mvp-joe/chaincheck/internal/runner"
	"github.com/mvp-joe/chaincheck/internal/suite"
)

// CheckRunner runs a subset of a suite's checks.
type CheckRunner interface {
	RunChecks(ctx context.Context, s *suite.Suite, checks []suite.Check) (*runner.Report, error)
}

// SuiteLoader reloads the suite after its file changes.
type SuiteLoader func(path string) (*suite.Suite, error)

// WatchCoordinator routes file changes to the checks that read those files.
// A change to the suite file reloads the suite and re-runs every check.
type WatchCoordinator struct {
	files    FileWatcher
	runner   CheckRunner
	load     SuiteLoader
	onReport func(*runner.Report)
	logger   *zap.Logger

	mu    sync.Mutex
	suite *suite.Suite
	wg    sync.WaitGroup
}

// NewWatchCoordinator creates a new watch coordinator.
func NewWatchCoordinator(
	files FileWatcher,
	checks CheckRunner,
	s *suite.Suite,
	load SuiteLoader,
	onReport func(*runner.Report),
	logger *zap.Logger,
) *WatchCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if load == nil {
		load = suite.Load
	}
	return &WatchCoordinator{
		files:    files,
		runner:   checks,
		load:     load,
		onReport: onReport,
		logger:   logger,
		suite:    s,
	}
}

// Start begins routing file changes to the runner.
// Blocks until context is cancelled.
func (c *WatchCoordinator) Start(ctx context.Context) error {
	if err := c.files.Start(ctx, func(files []string) {
		c.handleFileChange(ctx, files)
	}); err != nil {
		return err
	}

	<-ctx.Done()
	c.wg.Wait()
	return c.files.Stop()
}

// handleFileChange re-runs the checks affected by changed files. The watcher is
// paused while checks run so edits made meanwhile are batched into the next run.
func (c *WatchCoordinator) handleFileChange(ctx context.Context, files []string) {
	if ctx.Err() != nil {
		return
	}

	c.files.Pause()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.files.Resume()
		c.rerun(ctx, files)
	}()
}

func (c *WatchCoordinator) rerun(ctx context.Context, files []string) {
	c.mu.Lock()
	s := c.suite
	checks := s.Affected(files)

	if s.Path != "" && contains(files, s.Path) {
		reloaded, err := c.load(s.Path)
		if err != nil {
			c.mu.Unlock()
			c.logger.Warn("Failed to reload suite, keeping previous checks", zap.String("suite", s.Path), zap.Error(err))
			return
		}
		c.suite = reloaded
		s = reloaded
		checks = reloaded.Checks
		c.logger.Info("Suite reloaded", zap.String("suite", s.Path), zap.Int("checks", len(checks)))
	}
	c.mu.Unlock()

	if len(checks) == 0 {
		c.logger.Debug("No checks affected by change", zap.Strings("files", files))
		return
	}

	report, err := c.runner.RunChecks(ctx, s, checks)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("Re-running checks failed", zap.Error(err))
		}
		return
	}
	if c.onReport != nil {
		c.onReport(report)
	}
}

func contains(files []string, path string) bool {
	path = filepath.Clean(path)
	for _, f := range files {
		if filepath.Clean(f) == path {
			return true
		}
	}
	return false
}

// Suite returns the suite currently used for re-runs.
func (c *WatchCoordinator) Suite() *suite.Suite {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suite
}
