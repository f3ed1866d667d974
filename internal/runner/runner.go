// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrChecksFailed is returned when at least one check failed.
var ErrChecksFailed = errors.New("checks failed")

// Options tune aggregation.
type Options struct {
	// FailOpen lets inconclusive checks pass.
	FailOpen bool
}

// Runner manages the execution of checks.
type Runner struct {
	checks   []Check
	store    *StateStore
	deps     *Deps
	reporter Reporter
	opts     Options
}

// NewRunner creates a new runner. store may be nil to disable persistence.
func NewRunner(checks []Check, store *StateStore, deps *Deps, reporter Reporter, opts Options) *Runner {
	return &Runner{
		checks:   checks,
		store:    store,
		deps:     deps,
		reporter: reporter,
		opts:     opts,
	}
}

// RunAll executes all checks in order.
// It continues execution even if a check fails, accumulating failures.
// Returns an error if ANY check failed.
func (r *Runner) RunAll(ctx context.Context) error {
	return r.executeSequence(ctx, r.checks)
}

// Resume re-runs only the checks that failed in the last run.
func (r *Runner) Resume(ctx context.Context) error {
	if r.store == nil {
		return fmt.Errorf("resume needs a state directory")
	}
	failed, err := r.store.LoadFailedChecks()
	if err != nil {
		return fmt.Errorf("loading failed checks: %w", err)
	}

	if len(failed) == 0 {
		return nil
	}

	var toRun []Check
	for _, id := range failed {
		if c := r.findCheck(id); c != nil {
			toRun = append(toRun, c)
		}
	}

	return r.executeSequence(ctx, toRun)
}

// RunList executes a specific list of check IDs.
func (r *Runner) RunList(ctx context.Context, ids []string) error {
	var toRun []Check
	for _, id := range ids {
		c := r.findCheck(id)
		if c == nil {
			return fmt.Errorf("check not found: %s", id)
		}
		toRun = append(toRun, c)
	}
	return r.executeSequence(ctx, toRun)
}

func (r *Runner) findCheck(id string) Check {
	for _, c := range r.checks {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// executeSequence runs a sequence of checks, updating state.
// It returns error if ANY check failed.
func (r *Runner) executeSequence(ctx context.Context, checks []Check) error {
	var (
		ids          []string
		failed       []string
		inconclusive []string
	)

	for _, c := range checks {
		id := c.ID()
		ids = append(ids, id)

		var res Result
		if r.deps.Config != nil && r.deps.Config.Skipped(id) {
			res = Skip(id, "disabled by configuration")
		} else {
			res = c.Run(ctx, r.deps)
			res.Check = id
		}
		if r.deps.Log != nil {
			r.deps.Log.With("check", id).Debugf("%s: %s", res.Status, res.Note)
		}

		if r.store != nil {
			if err := r.store.WriteCheckResult(res); err != nil {
				return fmt.Errorf("writing result for %s: %w", id, err)
			}
		}
		if r.reporter != nil {
			r.reporter.Result(res)
		}

		switch res.Status {
		case StatusFail:
			failed = append(failed, id)
		case StatusError:
			inconclusive = append(inconclusive, id)
			if !r.opts.FailOpen {
				failed = append(failed, id)
			}
		}

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted after %s: %w", id, err)
		}
	}

	lastRun := LastRun{
		Status:       "pass",
		Checks:       ids,
		Failed:       failed,
		Inconclusive: inconclusive,
	}
	if changes := r.deps.Changes; changes != nil {
		lastRun.Base = changes.Range().Base
	}
	if len(failed) > 0 {
		lastRun.Status = "fail"
	}

	if r.store != nil {
		if err := r.store.WriteLastRun(lastRun); err != nil {
			return fmt.Errorf("writing last run: %w", err)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrChecksFailed, strings.Join(failed, ", "))
	}
	return nil
}
