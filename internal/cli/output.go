package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mvp-joe/chaincheck/internal/runner"
	"github.com/mvp-joe/chaincheck/internal/validator"
)

func writeJSON(w io.Writer, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

// printResult writes a one-check result.
func printResult(w io.Writer, res *validator.Result) {
	if res.Valid {
		fmt.Fprintf(w, "✓ %s: %s\n", res.File, res.Message)
		if res.Body != nil {
			fmt.Fprintf(w, "  body: lines %d-%d\n", res.Body.StartLine, res.Body.EndLine)
		}
		return
	}
	fmt.Fprintf(w, "✗ %s: %s\n", res.File, res.Message)
}

// printReport writes one line per check followed by a summary.
func printReport(w io.Writer, report *runner.Report) {
	for _, r := range report.Results {
		switch r.Status {
		case runner.StatusPassed:
			fmt.Fprintf(w, "PASS   %s\n", r.Check.Name)
		case runner.StatusFailed:
			fmt.Fprintf(w, "FAIL   %s: %s\n", r.Check.Name, r.Result.Message)
		default:
			fmt.Fprintf(w, "ERROR  %s: %s\n", r.Check.Name, r.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d passed, %d failed, %d errored (%s)\n",
		report.Passed, report.Failed, report.Errored, formatDuration(report.Duration))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
