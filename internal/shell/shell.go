// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell runs external tools (git, wdiff, make) behind an interface so
// callers can be tested against canned output.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dbast/checkcommit/internal/logger"
)

// Spec describes one command invocation. Argv[0] is the program; there is no
// shell string form.
type Spec struct {
	Argv []string
	Dir  string
}

func (s Spec) String() string {
	return strings.Join(s.Argv, " ")
}

// Result captures what a command produced.
type Result struct {
	Stdout   []byte
	Stderr   string
	ExitCode int

	// Err is set when the process could not be started or was interrupted.
	// A process that ran and exited non-zero has Err == nil.
	Err error
}

// Runner is the interface for executing commands.
type Runner interface {
	Run(ctx context.Context, spec Spec) Result
}

// Exec is the os/exec backed Runner.
type Exec struct {
	Log *logger.Logger
}

// NewExec creates an Exec runner. A nil logger discards output.
func NewExec(log *logger.Logger) *Exec {
	if log == nil {
		log = logger.Nop()
	}
	return &Exec{Log: log}
}

func (r *Exec) Run(ctx context.Context, spec Spec) Result {
	if len(spec.Argv) == 0 {
		return Result{ExitCode: -1, Err: errors.New("empty argv")}
	}

	r.Log.Debugf("exec: %s (dir=%q)", spec, spec.Dir)

	cmd := exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.Bytes(),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case ctx.Err() != nil:
		res.ExitCode = -1
		res.Err = ctx.Err()
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		res.Err = err
		r.Log.Error("exec: "+spec.String(), err)
	}
	return res
}

// Check converts a Result into an error unless the exit code is one of ok
// (0 when ok is empty).
func (res Result) Check(spec Spec, ok ...int) error {
	if res.Err != nil {
		return fmt.Errorf("%s: %w", spec, res.Err)
	}
	if len(ok) == 0 {
		ok = []int{0}
	}
	for _, code := range ok {
		if res.ExitCode == code {
			return nil
		}
	}
	if res.Stderr != "" {
		return fmt.Errorf("%s: exit status %d: %s", spec, res.ExitCode, res.Stderr)
	}
	return fmt.Errorf("%s: exit status %d", spec, res.ExitCode)
}

// Tail returns the last n lines of out, marking truncation.
func Tail(out string, n int) string {
	out = strings.TrimSpace(out)
	lines := strings.Split(out, "\n")
	if len(lines) <= n {
		return out
	}
	return "...(truncated)...\n" + strings.Join(lines[len(lines)-n:], "\n")
}

// LookPath reports whether name resolves on PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
