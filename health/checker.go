package health

import (
	"context"
	"time"
)

// Status is the outcome of a check, ordered from best to worst.
type Status int

const (
	StatusHealthy Status = iota
	// StatusDegraded means the dependency answered but not as expected. A run
	// may still succeed.
	StatusDegraded
	// StatusUnhealthy means a run would fail.
	StatusUnhealthy
)

var statusNames = [...]string{
	StatusHealthy:   "healthy",
	StatusDegraded:  "degraded",
	StatusUnhealthy: "unhealthy",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Result is what a Checker reports.
type Result struct {
	Status  Status
	Message string
	// Details holds check specific values such as a path or a status code.
	Details map[string]any
	// Duration and Timestamp are filled in by the Aggregator when left zero.
	Duration  time.Duration
	Timestamp time.Time
	Error     error
}

func newResult(s Status, message string, err error) Result {
	return Result{Status: s, Message: message, Error: err, Timestamp: time.Now()}
}

// Healthy returns a passing result.
func Healthy(message string) Result { return newResult(StatusHealthy, message, nil) }

// Degraded returns a result that does not fail the overall check.
func Degraded(message string) Result { return newResult(StatusDegraded, message, nil) }

// Unhealthy returns a failing result caused by err.
func Unhealthy(message string, err error) Result {
	return newResult(StatusUnhealthy, message, err)
}

// WithDetails returns a copy of r carrying details.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker checks one dependency of a run.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc names fn as a Checker.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

func (f *CheckerFunc) Name() string { return f.name }

func (f *CheckerFunc) Check(ctx context.Context) Result { return f.fn(ctx) }
