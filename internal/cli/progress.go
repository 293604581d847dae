package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/chaincheck/internal/runner"
)

// CLIProgressReporter shows a progress bar while a suite runs.
type CLIProgressReporter struct {
	quiet bool
	out   io.Writer
	bar   *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a progress reporter writing to out.
func NewCLIProgressReporter(quiet bool, out io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		out:   out,
	}
}

func (c *CLIProgressReporter) OnRunStart(totalChecks int) {
	if c.quiet || totalChecks == 0 {
		return
	}

	c.bar = progressbar.NewOptions(totalChecks,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Checking methods"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("checks/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnCheckComplete(result runner.CheckResult) {
	if c.quiet || c.bar == nil {
		return
	}
	c.bar.Add(1)
}

func (c *CLIProgressReporter) OnRunComplete(report *runner.Report) {
	if c.quiet || c.bar == nil {
		return
	}
	c.bar.Finish()
	c.bar = nil
}
