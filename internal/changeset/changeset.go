// SPDX-License-Identifier: AGPL-3.0-or-later

// Package changeset extracts what a change range adds: commits, files and
// lines. Results are cached for the lifetime of the Extractor, which lives
// for one run.
package changeset

import (
	"context"
	"strings"
	"sync"

	"github.com/dbast/checkcommit/internal/git"
	"github.com/dbast/checkcommit/internal/logger"
	"github.com/dbast/checkcommit/internal/scanner"
)

// Extractor provides access to the change set of one range.
type Extractor struct {
	vcs git.VersionControl
	rng git.Range
	log *logger.Logger

	mu      sync.Mutex
	commits []git.Commit
	files   []git.FileChange
	lines   map[string][]git.DiffLine
	trees   map[string][]string
}

// New creates an Extractor for rng.
func New(vcs git.VersionControl, rng git.Range, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{
		vcs:   vcs,
		rng:   rng,
		log:   log,
		lines: make(map[string][]git.DiffLine),
		trees: make(map[string][]string),
	}
}

// Range returns the range being inspected.
func (e *Extractor) Range() git.Range { return e.rng }

// VCS exposes the underlying version control for worktree queries.
func (e *Extractor) VCS() git.VersionControl { return e.vcs }

// Commits returns every commit in range, newest first.
func (e *Extractor) Commits(ctx context.Context) ([]git.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.commits != nil {
		return e.commits, nil
	}
	commits, err := e.vcs.Commits(ctx, e.rng.Base)
	if err != nil {
		return nil, err
	}
	if commits == nil {
		commits = []git.Commit{}
	}
	e.commits = commits
	return e.commits, nil
}

// Files returns every path changed in range with its status.
func (e *Extractor) Files(ctx context.Context) ([]git.FileChange, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.files != nil {
		return e.files, nil
	}
	files, err := e.vcs.DiffFiles(ctx, e.rng.Base)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []git.FileChange{}
	}
	e.files = files
	return e.files, nil
}

// AddedFiles returns the paths the range creates, sorted.
func (e *Extractor) AddedFiles(ctx context.Context) ([]string, error) {
	return e.filesWithStatus(ctx, git.StatusAdded)
}

// AddedOrModifiedFiles returns every changed path that still exists at HEAD, sorted.
func (e *Extractor) AddedOrModifiedFiles(ctx context.Context) ([]string, error) {
	return e.filesWithStatus(ctx, git.StatusAdded, git.StatusCopied, git.StatusModified, git.StatusRenamed, git.StatusType)
}

func (e *Extractor) filesWithStatus(ctx context.Context, statuses ...git.FileStatus) ([]string, error) {
	files, err := e.Files(ctx)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, f := range files {
		for _, s := range statuses {
			if f.Status == s {
				paths = append(paths, f.Path)
				break
			}
		}
	}
	return scanner.FilterFiles(paths, scanner.FilterOptions{}), nil
}

// AddedLines returns the lines the range adds to files with one of exts.
// An empty exts means every file.
func (e *Extractor) AddedLines(ctx context.Context, exts []string) ([]git.DiffLine, error) {
	key := strings.Join(exts, "\x00")

	e.mu.Lock()
	defer e.mu.Unlock()

	if lines, ok := e.lines[key]; ok {
		e.log.Debugf("added lines for %v: cached", exts)
		return lines, nil
	}

	diff, err := e.vcs.DiffLines(ctx, e.rng.Base, scanner.Pathspecs(exts)...)
	if err != nil {
		return nil, err
	}
	added := []git.DiffLine{}
	for _, l := range diff {
		if l.Op == git.OpAdded && scanner.HasExtension(l.Path, exts) {
			added = append(added, l)
		}
	}
	e.log.Debugf("added lines for %v: %d", exts, len(added))
	e.lines[key] = added
	return added, nil
}

// ExistingFiles lists the files directly under dir at the base revision.
func (e *Extractor) ExistingFiles(ctx context.Context, dir string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if files, ok := e.trees[dir]; ok {
		return files, nil
	}
	files, err := e.vcs.ListTree(ctx, e.rng.Base, dir)
	if err != nil {
		return nil, err
	}
	e.trees[dir] = files
	return files, nil
}
