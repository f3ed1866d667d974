// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"

	"github.com/dbast/checkcommit/internal/runner"
)

// MergeCommits keeps history linear: no commit in range may have more
// than one parent.
type MergeCommits struct{}

func (c *MergeCommits) ID() string { return "merge-commits" }

func (c *MergeCommits) Description() string {
	return "the range must not contain merge commits"
}

func (c *MergeCommits) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	commits, err := deps.Changes.Commits(ctx)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "listing commits")
	}

	var merges []string
	for _, commit := range commits {
		if commit.IsMerge() {
			merges = append(merges, fmt.Sprintf("%s %s", commit.Short, commit.Subject))
		}
	}

	var failures []runner.Failure
	if len(merges) > 0 {
		failures = append(failures, runner.Failure{
			Message: "Please do not include merge commits in your PR",
			Details: merges,
		})
	}
	return runner.FailOrPass(c.ID(), failures, fmt.Sprintf("%d commits", len(commits)))
}
