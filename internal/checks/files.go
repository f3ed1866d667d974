// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/dbast/checkcommit/internal/runner"
)

// LineEndings rejects added or modified text files with CR/LF line endings.
type LineEndings struct{}

func (c *LineEndings) ID() string { return "line-endings" }

func (c *LineEndings) Description() string {
	return "changed text files must use LF line endings"
}

func (c *LineEndings) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	files, err := deps.Changes.AddedOrModifiedFiles(ctx)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "listing changed files")
	}

	var failures []runner.Failure
	checked := 0
	for _, p := range files {
		data, err := os.ReadFile(filepath.Join(deps.RepoRoot, filepath.FromSlash(p)))
		if errors.Is(err, os.ErrNotExist) {
			deps.Log.Debugf("line-endings: %s not in worktree", p)
			continue
		}
		if err != nil {
			return runner.Erroredf(c.ID(), err, "reading %s", p)
		}
		if bytes.IndexByte(data, 0) >= 0 {
			continue
		}
		checked++
		if bytes.Contains(data, []byte("\r\n")) {
			failures = append(failures, runner.Failure{
				Message: fmt.Sprintf("%s : Files should be LF (Unix) format, not CR/LF (Windows)", p),
			})
		}
	}
	return runner.FailOrPass(c.ID(), failures, fmt.Sprintf("%d text files", checked))
}

// EmptyFiles rejects zero-length files unless their name is allow-listed.
type EmptyFiles struct{}

func (c *EmptyFiles) ID() string { return "empty-files" }

func (c *EmptyFiles) Description() string {
	return "changed files must not be empty"
}

func (c *EmptyFiles) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	files, err := deps.Changes.AddedOrModifiedFiles(ctx)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "listing changed files")
	}

	allow := make(map[string]bool, len(deps.Config.EmptyFiles.Allow))
	for _, name := range deps.Config.EmptyFiles.Allow {
		allow[name] = true
	}

	var failures []runner.Failure
	for _, p := range files {
		if allow[path.Base(p)] {
			continue
		}
		info, err := os.Stat(filepath.Join(deps.RepoRoot, filepath.FromSlash(p)))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return runner.Erroredf(c.ID(), err, "inspecting %s", p)
		}
		if info.Mode().IsRegular() && info.Size() == 0 {
			failures = append(failures, runner.Failure{
				Message: fmt.Sprintf("%s : Zero-length file", p),
			})
		}
	}
	return runner.FailOrPass(c.ID(), failures, fmt.Sprintf("%d files", len(files)))
}
