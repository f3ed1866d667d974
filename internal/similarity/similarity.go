// SPDX-License-Identifier: AGPL-3.0-or-later

// Package similarity measures how much of a new file's text is shared with
// an existing one, as a word-level percentage.
package similarity

import (
	"context"
	"fmt"

	"github.com/dbast/checkcommit/internal/logger"
	"github.com/dbast/checkcommit/internal/shell"
)

// Engine compares two files.
type Engine interface {
	// Name identifies the engine in logs and notes.
	Name() string
	// Shared returns the percentage of newPath's words that are common with
	// oldPath. ok is false when no percentage can be computed, e.g. for
	// binary input.
	Shared(ctx context.Context, oldPath, newPath string) (percent int, ok bool, err error)
}

const (
	KindAuto    = "auto"
	KindWdiff   = "wdiff"
	KindBuiltin = "builtin"
)

// New selects an engine. Paths passed to Shared are relative to root.
// "auto" uses wdiff when it is on PATH and the builtin matcher otherwise.
func New(kind string, runner shell.Runner, root string, log *logger.Logger) (Engine, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch kind {
	case KindWdiff:
		return NewWdiff(runner, root, log), nil
	case KindBuiltin:
		return NewWords(root), nil
	case KindAuto, "":
		if shell.LookPath("wdiff") {
			log.Debugf("similarity: wdiff found on PATH")
			return NewWdiff(runner, root, log), nil
		}
		log.Debugf("similarity: wdiff not found, using builtin matcher")
		return NewWords(root), nil
	default:
		return nil, fmt.Errorf("unknown similarity engine %q", kind)
	}
}
