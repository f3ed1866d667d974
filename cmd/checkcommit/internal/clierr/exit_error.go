// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clierr carries process exit codes through returned errors.
package clierr

import (
	"context"
	"errors"
	"fmt"
)

const (
	// ExitFailed covers failed checks as well as usage and setup errors.
	ExitFailed = 1
	// ExitInterrupted follows the shell convention for SIGINT.
	ExitInterrupted = 130
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

func (e *ExitError) Unwrap() error { return e.cause }

// Newf creates an ExitError with a formatted message.
func Newf(code int, format string, args ...any) error {
	return &ExitError{code: normalize(code), msg: fmt.Sprintf(format, args...)}
}

// Wrapf creates an ExitError wrapping cause.
func Wrapf(code int, cause error, format string, args ...any) error {
	return &ExitError{code: normalize(code), msg: fmt.Sprintf(format, args...), cause: cause}
}

// ExitCodeOf extracts an exit code from any error. Interrupted runs map to
// ExitInterrupted; everything else defaults to ExitFailed.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	return ExitFailed
}

func normalize(code int) int {
	if code <= 0 {
		return ExitFailed
	}
	return code
}
