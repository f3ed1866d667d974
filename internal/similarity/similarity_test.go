package similarity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbast/checkcommit/internal/shell"
)

const wdiffStats = `chirp/drivers/old.py: 100 words  60 60% common  0 0% deleted  40 40% changed
chirp/drivers/new.py: 110 words  60 54% common  10 9% inserted  40 36% changed
`

type cannedRunner struct {
	res  shell.Result
	argv []string
}

func (c *cannedRunner) Run(ctx context.Context, spec shell.Spec) shell.Result {
	c.argv = spec.Argv
	return c.res
}

func TestParseStats(t *testing.T) {
	tests := []struct {
		name string
		out  string
		pct  int
		ok   bool
	}{
		{name: "second line wins", out: wdiffStats, pct: 54, ok: true},
		{name: "singular word", out: "a: 1 word  1 100% common  0 0% deleted  0 0% changed\nb: 1 word  1 100% common  0 0% inserted  0 0% changed\n", pct: 100, ok: true},
		{name: "no output", out: "", ok: false},
		{name: "only one line", out: "a: 3 words  3 100% common\n", ok: false},
		{name: "garbage", out: "wdiff: binary file\n", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, ok := parseStats([]byte(tt.out))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.pct, pct)
		})
	}
}

func TestWdiff_Shared(t *testing.T) {
	r := &cannedRunner{res: shell.Result{ExitCode: 1, Stdout: []byte(wdiffStats)}}
	w := NewWdiff(r, "/repo", nil)

	pct, ok, err := w.Shared(context.Background(), "chirp/drivers/old.py", "chirp/drivers/new.py")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 54, pct)
	assert.Equal(t, []string{"wdiff", "--statistics", "-1", "-2", "-3", "chirp/drivers/old.py", "chirp/drivers/new.py"}, r.argv)
}

func TestWdiff_TroubleIsSkipped(t *testing.T) {
	r := &cannedRunner{res: shell.Result{ExitCode: 2, Stderr: "wdiff: cannot read"}}
	_, ok, err := NewWdiff(r, "", nil).Shared(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWdiff_SpawnErrorSurfaces(t *testing.T) {
	r := &cannedRunner{res: shell.Result{ExitCode: -1, Err: errors.New("executable file not found")}}
	_, ok, err := NewWdiff(r, "", nil).Shared(context.Background(), "a", "b")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestSharedWords(t *testing.T) {
	a := strings.Fields("a b c d e f g h i j")
	assert.Equal(t, 100, SharedWords(a, a))
	assert.Equal(t, 50, SharedWords(a, strings.Fields("a b c d e x y z w v")))
	assert.Equal(t, 0, SharedWords(a, strings.Fields("k l m")))
	assert.Equal(t, 0, SharedWords(a, nil))
}

func TestSharedWords_Threshold(t *testing.T) {
	var old []string
	for i := 0; i < 100; i++ {
		old = append(old, fmt.Sprintf("w%d", i))
	}
	for _, k := range []int{51, 52} {
		next := append([]string{}, old[:k]...)
		for i := k; i < 100; i++ {
			next = append(next, fmt.Sprintf("n%d", i))
		}
		assert.Equal(t, k, SharedWords(old, next))
	}
}

func TestWords_Shared(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "old.py", "import struct\nLOG = logging.getLogger(__name__)\n")
	write(t, dir, "new.py", "import struct\nLOG = logging.getLogger(__name__)\n")
	write(t, dir, "empty.py", "")
	write(t, dir, "blob.img", "\x00\x01\x02")

	w := NewWords(dir)
	ctx := context.Background()

	pct, ok, err := w.Shared(ctx, "old.py", "new.py")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 100, pct)

	_, ok, err = w.Shared(ctx, "old.py", "empty.py")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = w.Shared(ctx, "blob.img", "new.py")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = w.Shared(ctx, "missing.py", "new.py")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	e, err := New(KindBuiltin, nil, "/repo", nil)
	require.NoError(t, err)
	assert.Equal(t, KindBuiltin, e.Name())

	e, err = New(KindWdiff, &cannedRunner{}, "/repo", nil)
	require.NoError(t, err)
	assert.Equal(t, KindWdiff, e.Name())

	e, err = New(KindAuto, &cannedRunner{}, "/repo", nil)
	require.NoError(t, err)
	assert.Contains(t, []string{KindWdiff, KindBuiltin}, e.Name())

	_, err = New("levenshtein", nil, "", nil)
	assert.Error(t, err)
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
