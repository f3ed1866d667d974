// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dbast/checkcommit/internal/runner"
)

// Locale regenerates the translation templates and fails when the result
// differs from what is committed. Lines starting with an ignored prefix
// (comments, timestamps) may differ.
type Locale struct{}

func (c *Locale) ID() string { return "locale" }

func (c *Locale) Description() string {
	return "regenerated locale files must match the committed ones"
}

func (c *Locale) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	cfg := deps.Config.Locale
	if deps.Builder == nil || len(cfg.Build) == 0 {
		return runner.Skip(c.ID(), "no locale build configured")
	}
	if _, err := os.Stat(filepath.Join(deps.RepoRoot, filepath.FromSlash(cfg.Dir))); errors.Is(err, os.ErrNotExist) {
		return runner.Skip(c.ID(), fmt.Sprintf("%s does not exist", cfg.Dir))
	}

	if err := deps.Builder.Regenerate(ctx); err != nil {
		return runner.Erroredf(c.ID(), err, "regenerating %s", cfg.Dir)
	}

	diff, err := deps.Changes.VCS().WorktreeDiff(ctx, cfg.Dir)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "diffing %s", cfg.Dir)
	}

	var stale []string
	for _, l := range diff {
		if hasAnyPrefix(l.Text, cfg.IgnorePrefixes) {
			continue
		}
		stale = append(stale, fmt.Sprintf("%s:%d: %c%s", l.Path, l.Line, l.Op, l.Text))
	}

	var failures []runner.Failure
	if len(stale) > 0 {
		failures = append(failures, runner.Failure{
			Message: fmt.Sprintf("Please commit the regenerated files under %s", cfg.Dir),
			Details: stale,
		})
	}
	return runner.FailOrPass(c.ID(), failures, fmt.Sprintf("%d volatile lines ignored", len(diff)-len(stale)))
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

