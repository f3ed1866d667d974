// SPDX-License-Identifier: AGPL-3.0-or-later

// Package checks implements the policies of the gate. Every check reads the
// change set through runner.Deps and reports one runner.Result; none of them
// depends on another.
package checks

import (
	"context"
	"fmt"

	"github.com/dbast/checkcommit/internal/git"
	"github.com/dbast/checkcommit/internal/runner"
)

// Registry returns every check in the order the gate runs them.
func Registry() []runner.Check {
	return []runner.Check{
		&BannedAPI{},
		&TranslationLiterals{},
		&License{},
		&LineEndings{},
		&EmptyFiles{},
		&MergeCommits{},
		&Locale{},
		&DriverImages{},
		&Duplicates{},
	}
}

// IDs lists the identifiers of checks in order.
func IDs(checks []runner.Check) []string {
	ids := make([]string, 0, len(checks))
	for _, c := range checks {
		ids = append(ids, c.ID())
	}
	return ids
}

// sourceLines returns the lines the range adds to source files.
func sourceLines(ctx context.Context, deps *runner.Deps) ([]git.DiffLine, error) {
	return deps.Changes.AddedLines(ctx, deps.Config.SourceExtensions)
}

// detail formats a diff line the way grep -n would.
func detail(l git.DiffLine) string {
	return fmt.Sprintf("%s:%d: %s", l.Path, l.Line, l.Text)
}

func unique(slice []string) []string {
	if len(slice) == 0 {
		return nil
	}
	keys := make(map[string]bool)
	list := []string{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}
