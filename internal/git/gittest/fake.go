// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gittest provides an in-memory git.VersionControl for tests.
package gittest

import (
	"context"
	"strings"

	"github.com/dbast/checkcommit/internal/git"
	"github.com/dbast/checkcommit/internal/scanner"
)

// Fake is a canned git.VersionControl. Zero value is an empty range.
type Fake struct {
	Short    string
	ShortErr error

	CommitList []git.Commit
	CommitsErr error

	Changes  []git.FileChange
	FilesErr error

	// Diff holds the range diff; DiffLines filters it by pathspec.
	Diff    []git.DiffLine
	DiffErr error

	Worktree    []git.DiffLine
	WorktreeErr error

	// Trees maps a directory (no trailing slash) to its base listing.
	Trees   map[string][]string
	TreeErr error

	Calls map[string]int
}

var _ git.VersionControl = (*Fake)(nil)

func (f *Fake) called(name string) {
	if f.Calls == nil {
		f.Calls = make(map[string]int)
	}
	f.Calls[name]++
}

func (f *Fake) ShortHash(ctx context.Context, ref string) (string, error) {
	f.called("ShortHash")
	if f.ShortErr != nil {
		return "", f.ShortErr
	}
	if f.Short == "" {
		return "abc1234", nil
	}
	return f.Short, nil
}

func (f *Fake) Commits(ctx context.Context, base string) ([]git.Commit, error) {
	f.called("Commits")
	return f.CommitList, f.CommitsErr
}

func (f *Fake) DiffFiles(ctx context.Context, base string) ([]git.FileChange, error) {
	f.called("DiffFiles")
	return f.Changes, f.FilesErr
}

func (f *Fake) DiffLines(ctx context.Context, base string, pathspecs ...string) ([]git.DiffLine, error) {
	f.called("DiffLines")
	if f.DiffErr != nil {
		return nil, f.DiffErr
	}
	return filter(f.Diff, pathspecs), nil
}

func (f *Fake) WorktreeDiff(ctx context.Context, pathspecs ...string) ([]git.DiffLine, error) {
	f.called("WorktreeDiff")
	if f.WorktreeErr != nil {
		return nil, f.WorktreeErr
	}
	return filter(f.Worktree, pathspecs), nil
}

func (f *Fake) ListTree(ctx context.Context, rev, dir string) ([]string, error) {
	f.called("ListTree")
	if f.TreeErr != nil {
		return nil, f.TreeErr
	}
	return f.Trees[strings.TrimSuffix(dir, "/")], nil
}

func filter(lines []git.DiffLine, pathspecs []string) []git.DiffLine {
	if len(pathspecs) == 0 {
		return lines
	}
	var out []git.DiffLine
	for _, l := range lines {
		for _, spec := range pathspecs {
			if matches(l.Path, spec) {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

func matches(path, spec string) bool {
	if strings.HasPrefix(spec, "*") {
		return strings.HasSuffix(path, strings.TrimPrefix(spec, "*"))
	}
	return path == spec || scanner.Under(path, spec)
}

// Added builds added lines for path numbered from 1.
func Added(path string, texts ...string) []git.DiffLine {
	lines := make([]git.DiffLine, 0, len(texts))
	for i, text := range texts {
		lines = append(lines, git.DiffLine{Path: path, Op: git.OpAdded, Line: i + 1, Text: text})
	}
	return lines
}

// Removed builds removed lines for path numbered from 1.
func Removed(path string, texts ...string) []git.DiffLine {
	lines := make([]git.DiffLine, 0, len(texts))
	for i, text := range texts {
		lines = append(lines, git.DiffLine{Path: path, Op: git.OpRemoved, Line: i + 1, Text: text})
	}
	return lines
}

// AddedFiles builds FileChanges with status A.
func AddedFiles(paths ...string) []git.FileChange {
	changes := make([]git.FileChange, 0, len(paths))
	for _, p := range paths {
		changes = append(changes, git.FileChange{Status: git.StatusAdded, Path: p})
	}
	return changes
}
