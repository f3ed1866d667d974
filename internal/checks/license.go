// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbast/checkcommit/internal/runner"
)

// License requires every added line that mentions a license to reference
// one of the approved phrases. Matching is case-insensitive.
type License struct{}

func (c *License) ID() string { return "license" }

func (c *License) Description() string {
	return "license language in added lines must be GPLv3"
}

func (c *License) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	lines, err := sourceLines(ctx, deps)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "reading added lines")
	}

	allowed := make([]string, 0, len(deps.Config.License.AllowedPhrases))
	for _, p := range deps.Config.License.AllowedPhrases {
		allowed = append(allowed, strings.ToLower(p))
	}

	mentions := 0
	var offending []string
	for _, l := range lines {
		text := strings.ToLower(l.Text)
		if !strings.Contains(text, "license") {
			continue
		}
		mentions++
		if !containsAny(text, allowed) {
			offending = append(offending, detail(l))
		}
	}

	var failures []runner.Failure
	if len(offending) > 0 {
		failures = append(failures, runner.Failure{
			Message: "Files must be GPLv3 licensed (or not contain any license language)",
			Details: offending,
		})
	}
	return runner.FailOrPass(c.ID(), failures, fmt.Sprintf("%d license lines", mentions))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
