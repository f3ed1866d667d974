// SPDX-License-Identifier: AGPL-3.0-or-later

// Package build regenerates checked-in artifacts before they are compared.
package build

import (
	"context"
	"fmt"

	"github.com/dbast/checkcommit/internal/shell"
)

// Builder regenerates an artifact directory in place.
type Builder interface {
	Regenerate(ctx context.Context) error
}

// tailLines is how much build output a failure carries.
const tailLines = 20

// Command runs a fixed argv in the repository root.
type Command struct {
	runner shell.Runner
	dir    string
	argv   []string
}

// NewCommand creates a Builder running argv in dir.
func NewCommand(runner shell.Runner, dir string, argv []string) *Command {
	return &Command{runner: runner, dir: dir, argv: argv}
}

func (c *Command) Regenerate(ctx context.Context) error {
	if len(c.argv) == 0 {
		return fmt.Errorf("no build command configured")
	}
	spec := shell.Spec{Argv: c.argv, Dir: c.dir}
	res := c.runner.Run(ctx, spec)
	if res.Err != nil {
		return fmt.Errorf("%s: %w", spec, res.Err)
	}
	if res.ExitCode != 0 {
		out := shell.Tail(string(res.Stdout)+"\n"+res.Stderr, tailLines)
		return fmt.Errorf("%s: exit status %d\n%s", spec, res.ExitCode, out)
	}
	return nil
}
