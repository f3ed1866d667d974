// SPDX-License-Identifier: AGPL-3.0-or-later

// Package git is the version control collaborator of the gate: it resolves
// the base reference and extracts commits, changed files and diff lines.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbast/checkcommit/internal/shell"
)

// VersionControl is everything the gate needs from the VCS.
type VersionControl interface {
	// ShortHash resolves ref to an abbreviated commit hash.
	ShortHash(ctx context.Context, ref string) (string, error)
	// Commits lists commits reachable from HEAD but not from base.
	Commits(ctx context.Context, base string) ([]Commit, error)
	// DiffFiles lists paths changed between base and HEAD.
	DiffFiles(ctx context.Context, base string) ([]FileChange, error)
	// DiffLines returns changed lines between base and HEAD, limited to pathspecs.
	DiffLines(ctx context.Context, base string, pathspecs ...string) ([]DiffLine, error)
	// WorktreeDiff returns unstaged changes limited to pathspecs.
	WorktreeDiff(ctx context.Context, pathspecs ...string) ([]DiffLine, error)
	// ListTree lists the files directly under dir at rev.
	ListTree(ctx context.Context, rev, dir string) ([]string, error)
}

// Client implements VersionControl by running git in Dir.
type Client struct {
	runner shell.Runner
	dir    string
}

// NewClient creates a git client rooted at dir.
func NewClient(runner shell.Runner, dir string) *Client {
	return &Client{runner: runner, dir: dir}
}

func (c *Client) git(ctx context.Context, args ...string) ([]byte, error) {
	spec := shell.Spec{
		Argv: append([]string{"git", "-c", "core.quotepath=off"}, args...),
		Dir:  c.dir,
	}
	res := c.runner.Run(ctx, spec)
	if err := res.Check(spec); err != nil {
		return nil, err
	}
	return res.Stdout, nil
}

func (c *Client) ShortHash(ctx context.Context, ref string) (string, error) {
	out, err := c.git(ctx, "rev-parse", "--verify", "--short", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", ref, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *Client) Commits(ctx context.Context, base string) ([]Commit, error) {
	out, err := c.git(ctx, "log", "-z", logFormat, base+"..")
	if err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}
	return parseLog(out)
}

func (c *Client) DiffFiles(ctx context.Context, base string) ([]FileChange, error) {
	out, err := c.git(ctx, "diff", "--name-status", "-z", base+"..")
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}
	return parseNameStatus(out)
}

func (c *Client) DiffLines(ctx context.Context, base string, pathspecs ...string) ([]DiffLine, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff", "-U0", base + ".."}
	out, err := c.git(ctx, withPathspecs(args, pathspecs)...)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..: %w", base, err)
	}
	return ParseUnified(string(out))
}

func (c *Client) WorktreeDiff(ctx context.Context, pathspecs ...string) ([]DiffLine, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff", "-U0"}
	out, err := c.git(ctx, withPathspecs(args, pathspecs)...)
	if err != nil {
		return nil, fmt.Errorf("diffing worktree: %w", err)
	}
	return ParseUnified(string(out))
}

func (c *Client) ListTree(ctx context.Context, rev, dir string) ([]string, error) {
	dir = strings.TrimSuffix(dir, "/") + "/"
	out, err := c.git(ctx, "ls-tree", "-z", rev, "--", dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s at %s: %w", dir, rev, err)
	}
	return parseTree(out), nil
}

func withPathspecs(args, pathspecs []string) []string {
	if len(pathspecs) == 0 {
		return args
	}
	args = append(args, "--")
	return append(args, pathspecs...)
}
