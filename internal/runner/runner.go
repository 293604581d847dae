// Package runner executes check suites concurrently and assembles run reports.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/chaincheck/internal/suite"
	"github.com/mvp-joe/chaincheck/internal/validator"
)

// Config configures a Runner.
type Config struct {
	Concurrency  int
	ReadTimeout  time.Duration
	SkipComments bool
	Logger       *zap.Logger
	Progress     ProgressReporter
}

// Runner runs suite checks. Every check loads its own source; nothing is shared
// between checks except the options.
type Runner struct {
	concurrency  int
	readTimeout  time.Duration
	skipComments bool
	logger       *zap.Logger
	progress     ProgressReporter
}

// New creates a Runner. Zero values fall back to one worker, a no-op logger
// and no progress reporting.
func New(cfg Config) *Runner {
	r := &Runner{
		concurrency:  cfg.Concurrency,
		readTimeout:  cfg.ReadTimeout,
		skipComments: cfg.SkipComments,
		logger:       cfg.Logger,
		progress:     cfg.Progress,
	}
	if r.concurrency <= 0 {
		r.concurrency = 1
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.progress == nil {
		r.progress = &NoOpProgressReporter{}
	}
	return r
}

// Run executes every check in s.
func (r *Runner) Run(ctx context.Context, s *suite.Suite) (*Report, error) {
	return r.RunChecks(ctx, s, s.Checks)
}

// RunChecks executes the given subset of s's checks. Results keep the order of
// checks. Check failures and per-check errors are recorded in the report; the
// returned error is non-nil only when ctx is cancelled.
func (r *Runner) RunChecks(ctx context.Context, s *suite.Suite, checks []suite.Check) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Suite:     s.Path,
		StartedAt: time.Now(),
		Results:   make([]CheckResult, len(checks)),
	}
	logger := r.logger.With(zap.String("run_id", report.RunID))
	logger.Info("Running checks", zap.String("suite", s.Path), zap.Int("checks", len(checks)), zap.Int("concurrency", r.concurrency))

	r.progress.OnRunStart(len(checks))

	var progressMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, check := range checks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result := r.runCheck(gctx, s, check, logger)
			report.Results[i] = result

			progressMu.Lock()
			r.progress.OnCheckComplete(result)
			progressMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, res := range report.Results {
		switch res.Status {
		case StatusPassed:
			report.Passed++
		case StatusFailed:
			report.Failed++
		case StatusError:
			report.Errored++
		}
	}
	report.Duration = time.Since(report.StartedAt)

	logger.Info("Run complete",
		zap.Int("passed", report.Passed),
		zap.Int("failed", report.Failed),
		zap.Int("errored", report.Errored),
		zap.Duration("duration", report.Duration))

	r.progress.OnRunComplete(report)
	return report, nil
}

func (r *Runner) runCheck(ctx context.Context, s *suite.Suite, check suite.Check, logger *zap.Logger) CheckResult {
	start := time.Now()
	file := s.Resolve(check)

	skip := r.skipComments
	if check.SkipComments != nil {
		skip = *check.SkipComments
	}
	v := validator.New(
		validator.WithSkipComments(skip),
		validator.WithReadTimeout(r.readTimeout),
		validator.WithLogger(logger),
	)

	result := CheckResult{Check: check, File: file}
	res, err := v.Validate(ctx, file, check.Method, check.Tokens)
	result.Duration = time.Since(start)

	switch {
	case err != nil:
		result.Status = StatusError
		result.Err = err
		result.Error = err.Error()
		logger.Warn("Check errored", zap.String("check", check.Name), zap.Error(err))
	case res.Valid:
		result.Status = StatusPassed
		result.Result = res
		logger.Debug("Check passed", zap.String("check", check.Name))
	default:
		result.Status = StatusFailed
		result.Result = res
		logger.Debug("Check failed", zap.String("check", check.Name), zap.String("reason", string(res.Reason)))
	}
	return result
}
