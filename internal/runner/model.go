// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import "fmt"

// Status represents the outcome of a check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
	// StatusError means the check could not reach a verdict because a tool failed.
	StatusError Status = "error"
)

// Failure is one violation: a message and the offending content, if any.
type Failure struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Result represents the result of a single check.
// Matches the <state-dir>/checks/<check>.json schema.
type Result struct {
	Check    string    `json:"check"`
	Status   Status    `json:"status"`
	ExitCode int       `json:"exit_code"`
	Note     string    `json:"note,omitempty"`
	Failures []Failure `json:"failures,omitempty"`
}

// LastRun represents the summary of the last execution.
// Matches the <state-dir>/last-run.json schema.
type LastRun struct {
	Status       string   `json:"status"` // "pass" or "fail"
	Base         string   `json:"base"`
	Checks       []string `json:"checks"` // Ordered list of checks run
	Failed       []string `json:"failed"`
	Inconclusive []string `json:"inconclusive,omitempty"`
}

// Pass builds a passing result.
func Pass(id, note string) Result {
	return Result{Check: id, Status: StatusPass, Note: note}
}

// Skip builds a skipped result.
func Skip(id, note string) Result {
	return Result{Check: id, Status: StatusSkip, Note: note}
}

// Fail builds a failing result. Without failures it still fails.
func Fail(id string, failures ...Failure) Result {
	return Result{Check: id, Status: StatusFail, ExitCode: 1, Failures: failures}
}

// Errored builds an inconclusive result from a tooling error.
func Errored(id string, err error) Result {
	return Result{Check: id, Status: StatusError, ExitCode: 2, Note: err.Error()}
}

// Erroredf is the formatted variant of Errored.
func Erroredf(id string, err error, format string, args ...any) Result {
	return Errored(id, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err))
}

// FailOrPass returns Fail when failures is non-empty and Pass(note) otherwise.
func FailOrPass(id string, failures []Failure, note string) Result {
	if len(failures) > 0 {
		return Fail(id, failures...)
	}
	return Pass(id, note)
}
