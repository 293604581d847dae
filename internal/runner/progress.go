package runner

// ProgressReporter provides callbacks for reporting suite progress.
// Implementations can display progress bars, log messages, or remain silent.
// Callbacks may be invoked from several goroutines; OnCheckComplete calls are
// serialized by the runner.
type ProgressReporter interface {
	// OnRunStart is called before any check runs.
	OnRunStart(totalChecks int)

	// OnCheckComplete is called after each check finishes.
	OnCheckComplete(result CheckResult)

	// OnRunComplete is called once the report is assembled.
	OnRunComplete(report *Report)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnRunStart(totalChecks int)         {}
func (n *NoOpProgressReporter) OnCheckComplete(result CheckResult) {}
func (n *NoOpProgressReporter) OnRunComplete(report *Report)       {}
