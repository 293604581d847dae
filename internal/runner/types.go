package runner

import (
	"time"

	"github.com/mvp-joe/chaincheck/internal/suite"
	"github.com/mvp-joe/chaincheck/internal/validator"
)

// Status is the outcome of a single check.
type Status string

const (
	// StatusPassed means the method contains every token in order.
	StatusPassed Status = "passed"

	// StatusFailed means the method or a token is missing.
	StatusFailed Status = "failed"

	// StatusError means the check could not be evaluated (unreadable or malformed source).
	StatusError Status = "error"
)

// CheckResult is the outcome of one suite check.
type CheckResult struct {
	Check    suite.Check       `json:"check"`
	File     string            `json:"file"`
	Status   Status            `json:"status"`
	Result   *validator.Result `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
	Duration time.Duration     `json:"duration_ns"`

	Err error `json:"-"`
}

// Report summarizes one run of a suite.
type Report struct {
	RunID     string        `json:"run_id"`
	Suite     string        `json:"suite"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Results   []CheckResult `json:"results"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Errored   int           `json:"errored"`
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Errored == 0
}

// Total is the number of checks in the report.
func (r *Report) Total() int {
	return len(r.Results)
}
