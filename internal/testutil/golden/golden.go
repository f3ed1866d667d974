// Package golden compares rendered output with files checked in under the
// calling test's testdata directory. Run tests with -update to rewrite them.
package golden

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "rewrite golden files with current output")

// Assert compares got with testdata/<name>.golden next to the calling file.
// A missing golden file fails the test unless -update is set.
func Assert(t *testing.T, name, got string) {
	t.Helper()
	_, filename, _, ok := runtime.Caller(1)
	require.True(t, ok, "runtime.Caller failed")
	require.False(t, strings.Contains(name, "..") || strings.ContainsAny(name, `/\`), "invalid golden name %q", name)

	dir := filepath.Join(filepath.Dir(filename), "testdata")
	path := filepath.Join(dir, name+".golden")

	if *update {
		require.NoError(t, os.MkdirAll(dir, 0o750))
		require.NoError(t, os.WriteFile(path, []byte(got), 0o600))
		return
	}

	want, err := os.ReadFile(path) //nolint:gosec // testdata path controlled by test
	require.NoError(t, err, "golden file %s missing; run with -update", path)
	assert.Equal(t, string(want), got)
}
