// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dbast/checkcommit/internal/runner"
	"github.com/dbast/checkcommit/internal/scanner"
)

// Duplicates compares every added source file with every file that existed
// under the configured directory at the base revision. Each pair sharing
// more than the threshold percentage of words fails; the comparison never
// stops at the first offender.
type Duplicates struct{}

func (c *Duplicates) ID() string { return "duplicates" }

func (c *Duplicates) Description() string {
	return "new files must not be near-duplicates of existing drivers"
}

func (c *Duplicates) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	cfg := deps.Config.Duplicates
	if deps.Similarity == nil {
		return runner.Errored(c.ID(), errors.New("no similarity engine configured"))
	}

	added, err := deps.Changes.AddedFiles(ctx)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "listing added files")
	}
	added = scanner.FilterFiles(added, scanner.FilterOptions{
		IncludeExtensions: deps.Config.SourceExtensions,
	})
	if len(added) == 0 {
		return runner.Pass(c.ID(), "no new source files")
	}

	existing, err := deps.Changes.ExistingFiles(ctx, cfg.Dir)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "listing %s", cfg.Dir)
	}
	existing = unique(existing)

	var (
		failures []runner.Failure
		compared int
		skipped  int
	)
	for _, newPath := range added {
		for _, oldPath := range existing {
			if err := ctx.Err(); err != nil {
				return runner.Errored(c.ID(), err)
			}
			if oldPath == newPath {
				continue
			}
			if !inWorktree(deps.RepoRoot, oldPath) {
				deps.Log.Debugf("duplicates: %s not in worktree", oldPath)
				skipped++
				continue
			}

			percent, ok, err := deps.Similarity.Shared(ctx, oldPath, newPath)
			if err != nil {
				res := runner.Erroredf(c.ID(), err, "comparing %s with %s", newPath, oldPath)
				res.Failures = failures
				return res
			}
			if !ok {
				deps.Log.Debugf("duplicates: no score for %s vs %s", newPath, oldPath)
				skipped++
				continue
			}
			compared++
			if percent > cfg.Threshold {
				failures = append(failures, runner.Failure{
					Message: fmt.Sprintf("New file %s shares at least %d%% with %s!", newPath, percent, oldPath),
				})
			}
		}
	}

	note := fmt.Sprintf("%d pairs compared with %s, %d skipped", compared, deps.Similarity.Name(), skipped)
	return runner.FailOrPass(c.ID(), failures, note)
}

func inWorktree(root, p string) bool {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(p)))
	return err == nil && info.Mode().IsRegular()
}
