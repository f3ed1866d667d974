// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dbast/checkcommit/internal/git"
	"github.com/dbast/checkcommit/internal/runner"
)

// BannedAPI rejects added lines calling a function that has a required
// replacement. Each banned call fails at most once.
type BannedAPI struct{}

func (c *BannedAPI) ID() string { return "banned-api" }

func (c *BannedAPI) Description() string {
	return "added source lines must not call banned functions"
}

func (c *BannedAPI) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	lines, err := sourceLines(ctx, deps)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "reading added lines")
	}

	var failures []runner.Failure
	for _, banned := range deps.Config.BannedCalls {
		re, err := regexp.Compile(banned.Pattern)
		if err != nil {
			return runner.Erroredf(c.ID(), err, "compiling %q", banned.Pattern)
		}
		if offending := grep(lines, re); len(offending) > 0 {
			failures = append(failures, runner.Failure{
				Message: fmt.Sprintf("New uses of %s should be %s", banned.DisplayName(), banned.Replacement),
				Details: offending,
			})
		}
	}
	return runner.FailOrPass(c.ID(), failures, fmt.Sprintf("%d added lines", len(lines)))
}

// TranslationLiterals rejects translation calls whose argument is not a
// string literal; message catalogs can only extract literals.
type TranslationLiterals struct{}

func (c *TranslationLiterals) ID() string { return "translation-literals" }

func (c *TranslationLiterals) Description() string {
	return "translated strings must be literals"
}

func (c *TranslationLiterals) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	pattern := deps.Config.Translation.Pattern
	if pattern == "" {
		return runner.Skip(c.ID(), "no translation pattern configured")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "compiling %q", pattern)
	}

	lines, err := sourceLines(ctx, deps)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "reading added lines")
	}

	var failures []runner.Failure
	if offending := grep(lines, re); len(offending) > 0 {
		failures = append(failures, runner.Failure{
			Message: "Translated strings must be literals!",
			Details: offending,
		})
	}
	return runner.FailOrPass(c.ID(), failures, fmt.Sprintf("%d added lines", len(lines)))
}

func grep(lines []git.DiffLine, re *regexp.Regexp) []string {
	var out []string
	for _, l := range lines {
		if re.MatchString(l.Text) {
			out = append(out, detail(l))
		}
	}
	return out
}
