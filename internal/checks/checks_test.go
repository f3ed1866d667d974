package checks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbast/checkcommit/internal/changeset"
	"github.com/dbast/checkcommit/internal/config"
	"github.com/dbast/checkcommit/internal/git"
	"github.com/dbast/checkcommit/internal/git/gittest"
	"github.com/dbast/checkcommit/internal/logger"
	"github.com/dbast/checkcommit/internal/runner"
)

func newDeps(t *testing.T, vcs *gittest.Fake) *runner.Deps {
	t.Helper()
	return &runner.Deps{
		RepoRoot: t.TempDir(),
		Config:   config.Default(),
		Changes:  changeset.New(vcs, git.Range{Base: "origin/master", Short: "abc1234"}, logger.Nop()),
		Log:      logger.Nop(),
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRegistry_Order(t *testing.T) {
	checks := Registry()
	assert.Equal(t, []string{
		"banned-api",
		"translation-literals",
		"license",
		"line-endings",
		"empty-files",
		"merge-commits",
		"locale",
		"driver-images",
		"duplicates",
	}, IDs(checks))

	for _, c := range checks {
		assert.NotEmpty(t, c.Description(), c.ID())
	}
}

func TestUnique(t *testing.T) {
	assert.Nil(t, unique(nil))
	assert.Equal(t, []string{"b", "a"}, unique([]string{"b", "a", "b"}))
}

func TestLineChecks_ZeroAddedLinesNeverFail(t *testing.T) {
	vcs := &gittest.Fake{Diff: gittest.Removed("chirp/drivers/uv5r.py", "x = MemoryMap(data)", "# MIT License")}
	deps := newDeps(t, vcs)

	for _, c := range []runner.Check{&BannedAPI{}, &TranslationLiterals{}, &License{}} {
		res := c.Run(context.Background(), deps)
		assert.Equal(t, runner.StatusPass, res.Status, c.ID())
	}
}

func TestBannedAPI_FailsOnce(t *testing.T) {
	vcs := &gittest.Fake{Diff: gittest.Added("chirp/drivers/bft2.py",
		"import memmap",
		"self._mmap = memmap.MemoryMap(data)",
		"other = MemoryMap(more)",
		"fine = MemoryMapBytes(data)",
	)}

	res := (&BannedAPI{}).Run(context.Background(), newDeps(t, vcs))

	assert.Equal(t, runner.StatusFail, res.Status)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "New uses of MemoryMap should be MemoryMapBytes", res.Failures[0].Message)
	assert.Equal(t, []string{
		"chirp/drivers/bft2.py:2: self._mmap = memmap.MemoryMap(data)",
		"chirp/drivers/bft2.py:3: other = MemoryMap(more)",
	}, res.Failures[0].Details)
}

func TestBannedAPI_OnlySourceFiles(t *testing.T) {
	vcs := &gittest.Fake{Diff: gittest.Added("docs/notes.txt", "MemoryMap(data) is deprecated")}

	res := (&BannedAPI{}).Run(context.Background(), newDeps(t, vcs))
	assert.Equal(t, runner.StatusPass, res.Status)
}

func TestBannedAPI_PatternNameFallback(t *testing.T) {
	vcs := &gittest.Fake{Diff: gittest.Added("a.py", "os.system('ls')")}
	deps := newDeps(t, vcs)
	deps.Config.BannedCalls = []config.BannedCall{{Pattern: `os\.system\(`, Replacement: "subprocess.run"}}

	res := (&BannedAPI{}).Run(context.Background(), deps)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, `New uses of os\.system\( should be subprocess.run`, res.Failures[0].Message)
}

func TestBannedAPI_DiffError(t *testing.T) {
	vcs := &gittest.Fake{DiffErr: assert.AnError}

	res := (&BannedAPI{}).Run(context.Background(), newDeps(t, vcs))
	assert.Equal(t, runner.StatusError, res.Status)
	assert.Contains(t, res.Note, "reading added lines")
}

func TestTranslationLiterals(t *testing.T) {
	tests := []struct {
		name string
		line string
		fail bool
	}{
		{"literal double quotes", `label = _("Frequency")`, false},
		{"literal single quotes", `label = _('Frequency')`, false},
		{"variable", `label = _(name)`, true},
		{"format call", `msg = _(fmt % value)`, true},
		{"private helper", `self.__(name)`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vcs := &gittest.Fake{Diff: gittest.Added("chirp/wxui/main.py", tt.line)}
			res := (&TranslationLiterals{}).Run(context.Background(), newDeps(t, vcs))
			if tt.fail {
				assert.Equal(t, runner.StatusFail, res.Status)
				require.Len(t, res.Failures, 1)
				assert.Equal(t, "Translated strings must be literals!", res.Failures[0].Message)
			} else {
				assert.Equal(t, runner.StatusPass, res.Status)
			}
		})
	}
}

func TestTranslationLiterals_Disabled(t *testing.T) {
	deps := newDeps(t, &gittest.Fake{})
	deps.Config.Translation.Pattern = ""

	res := (&TranslationLiterals{}).Run(context.Background(), deps)
	assert.Equal(t, runner.StatusSkip, res.Status)
}

func TestLicense(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		offending []string
	}{
		{
			name: "gpl header",
			lines: []string{
				"# This program is free software: you can redistribute it and/or modify",
				"# it under the terms of the GNU General Public License as published by",
				"# the Free Software Foundation, either version 3 of the License, or",
				"# along with this program.  If not, see <http://www.gnu.org/licenses/>.",
			},
		},
		{
			name:  "case insensitive phrase",
			lines: []string{"# gnu general public license"},
		},
		{
			name:      "other license",
			lines:     []string{"# Licensed under the MIT License", "x = 1"},
			offending: []string{"chirp/drivers/new.py:1: # Licensed under the MIT License"},
		},
		{
			name:      "any mention counts",
			lines:     []string{"LICENSE_KEY = 4"},
			offending: []string{"chirp/drivers/new.py:1: LICENSE_KEY = 4"},
		},
		{
			name:  "no license language",
			lines: []string{"def sync_in(self):", "    pass"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vcs := &gittest.Fake{Diff: gittest.Added("chirp/drivers/new.py", tt.lines...)}
			res := (&License{}).Run(context.Background(), newDeps(t, vcs))
			if len(tt.offending) == 0 {
				assert.Equal(t, runner.StatusPass, res.Status)
				return
			}
			assert.Equal(t, runner.StatusFail, res.Status)
			require.Len(t, res.Failures, 1)
			assert.Equal(t, "Files must be GPLv3 licensed (or not contain any license language)", res.Failures[0].Message)
			assert.Equal(t, tt.offending, res.Failures[0].Details)
		})
	}
}

func TestMergeCommits(t *testing.T) {
	linear := []git.Commit{
		{Short: "1111111", Parents: []string{"a"}, Subject: "Add driver"},
		{Short: "2222222", Parents: []string{"b"}, Subject: "Fix driver"},
	}

	res := (&MergeCommits{}).Run(context.Background(), newDeps(t, &gittest.Fake{CommitList: linear}))
	assert.Equal(t, runner.StatusPass, res.Status)

	withMerge := append(linear, git.Commit{Short: "3333333", Parents: []string{"a", "b"}, Subject: "Merge branch 'master'"})
	res = (&MergeCommits{}).Run(context.Background(), newDeps(t, &gittest.Fake{CommitList: withMerge}))
	assert.Equal(t, runner.StatusFail, res.Status)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "Please do not include merge commits in your PR", res.Failures[0].Message)
	assert.Equal(t, []string{"3333333 Merge branch 'master'"}, res.Failures[0].Details)

	res = (&MergeCommits{}).Run(context.Background(), newDeps(t, &gittest.Fake{}))
	assert.Equal(t, runner.StatusPass, res.Status)

	res = (&MergeCommits{}).Run(context.Background(), newDeps(t, &gittest.Fake{CommitsErr: assert.AnError}))
	assert.Equal(t, runner.StatusError, res.Status)
}

func TestLineEndings(t *testing.T) {
	vcs := &gittest.Fake{Changes: []git.FileChange{
		{Status: git.StatusAdded, Path: "chirp/drivers/dos.py"},
		{Status: git.StatusModified, Path: "chirp/drivers/unix.py"},
		{Status: git.StatusAdded, Path: "tests/images/Radio.img"},
		{Status: git.StatusAdded, Path: "gone.py"},
		{Status: git.StatusDeleted, Path: "old.py"},
	}}
	deps := newDeps(t, vcs)
	writeFile(t, deps.RepoRoot, "chirp/drivers/dos.py", "a = 1\r\nb = 2\r\n")
	writeFile(t, deps.RepoRoot, "chirp/drivers/unix.py", "a = 1\nb = 2\n")
	writeFile(t, deps.RepoRoot, "tests/images/Radio.img", "\x00\x01\r\n\x02")
	writeFile(t, deps.RepoRoot, "old.py", "x\r\n")

	res := (&LineEndings{}).Run(context.Background(), deps)

	assert.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []runner.Failure{
		{Message: "chirp/drivers/dos.py : Files should be LF (Unix) format, not CR/LF (Windows)"},
	}, res.Failures)
}

func TestEmptyFiles(t *testing.T) {
	vcs := &gittest.Fake{Changes: gittest.AddedFiles(
		"chirp/drivers/__init__.py",
		"chirp/drivers/empty.py",
		"chirp/drivers/full.py",
	)}
	deps := newDeps(t, vcs)
	writeFile(t, deps.RepoRoot, "chirp/drivers/__init__.py", "")
	writeFile(t, deps.RepoRoot, "chirp/drivers/empty.py", "")
	writeFile(t, deps.RepoRoot, "chirp/drivers/full.py", "x = 1\n")

	res := (&EmptyFiles{}).Run(context.Background(), deps)

	assert.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []runner.Failure{{Message: "chirp/drivers/empty.py : Zero-length file"}}, res.Failures)
}
