package commands

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbast/checkcommit/cmd/checkcommit/internal/clierr"
	"github.com/dbast/checkcommit/internal/runner"
)

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func createFile(t *testing.T, dir, path string, content string) {
	t.Helper()
	fullPath := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
}

// newRepo creates a repository with a "base" tag and one commit on top
// adding a driver that calls a banned function, then enters it.
func newRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")

	createFile(t, dir, "chirp/drivers/bf_t1.py", "import struct\n\nclass BFT1Radio(object):\n    pass\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "Initial commit")
	runGit(t, dir, "tag", "base")

	createFile(t, dir, "chirp/drivers/bft2.py", "m = MemoryMap(d)\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "Add BF-T2 driver")

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	t.Setenv("CHECKCOMMIT_ENGINE", "builtin")
	return dir
}

func TestGate_FailsAndPersists(t *testing.T) {
	dir := newRepo(t)
	baseShort := runGit(t, dir, "rev-parse", "--short", "base")
	headShort := runGit(t, dir, "rev-parse", "--short", "HEAD")

	out, err := execute(t, "base", "--color", "never", "--skip", "locale")

	require.ErrorIs(t, err, runner.ErrChecksFailed)
	assert.Equal(t, clierr.ExitFailed, clierr.ExitCodeOf(err))
	assert.True(t, strings.HasPrefix(out, "Checking from "+baseShort+":\n"+headShort+" Add BF-T2 driver\n"), out)
	assert.Contains(t, out, "chirp/drivers/bft2.py:1: m = MemoryMap(d)\nNew uses of MemoryMap should be MemoryMapBytes\n")
	assert.Contains(t, out, "All new drivers should include a test image\n")
	assert.NotContains(t, out, "shares at least")

	again, err2 := execute(t, "base", "--color", "never", "--skip", "locale")
	require.Error(t, err2)
	assert.Equal(t, err.Error(), err2.Error())
	assert.Equal(t, out, again)

	report, err := execute(t, "report")
	require.NoError(t, err)
	assert.Contains(t, report, "Base: base\n")
	assert.Contains(t, report, "Status: fail\n")
	assert.Contains(t, report, "  - banned-api\n      New uses of MemoryMap should be MemoryMapBytes\n")
	assert.Contains(t, report, "  - driver-images\n")

	_, err = execute(t, "resume", "--color", "never")
	assert.ErrorIs(t, err, runner.ErrChecksFailed)

	out, err = execute(t, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(".checkcommit", "run"))

	report, err = execute(t, "report")
	require.NoError(t, err)
	assert.Equal(t, "No run state found.\n", report)

	out, err = execute(t, "resume")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to resume.\n", out)
}

func TestGate_RunSelected(t *testing.T) {
	newRepo(t)

	out, err := execute(t, "run", "merge-commits", "license", "--base", "base", "--color", "never", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS: merge-commits (1 commits)\n")
	assert.Contains(t, out, "PASS: license (0 license lines)\n")
	assert.NotContains(t, out, "MemoryMap")
}

func TestGate_UnresolvableBase(t *testing.T) {
	newRepo(t)

	_, err := execute(t, "does-not-exist", "--color", "never")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot resolve base "does-not-exist"`)

	out, err := execute(t, "does-not-exist", "--color", "never", "--fail-open", "--skip", "locale")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Checking from does-not-exist:\n"), out)
	assert.Contains(t, out, "warning: banned-api inconclusive")
}

func TestGate_ExplicitConfigMustExist(t *testing.T) {
	newRepo(t)

	_, err := execute(t, "base", "--config", "missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading configuration")
}

func TestGate_ConfigFile(t *testing.T) {
	dir := newRepo(t)
	createFile(t, dir, ".checkcommit.yaml", "skip: [locale, driver-images]\nbanned_calls: []\n")

	out, err := execute(t, "base", "--color", "never")
	require.NoError(t, err)
	assert.NotContains(t, out, "MemoryMap")
}
