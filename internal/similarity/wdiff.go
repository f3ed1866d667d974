// SPDX-License-Identifier: AGPL-3.0-or-later

package similarity

import (
	"bufio"
	"bytes"
	"context"
	"regexp"
	"strconv"

	"github.com/dbast/checkcommit/internal/logger"
	"github.com/dbast/checkcommit/internal/shell"
)

// Wdiff runs GNU wdiff in statistics mode.
type Wdiff struct {
	runner shell.Runner
	dir    string
	log    *logger.Logger
}

// NewWdiff creates a wdiff engine running in dir.
func NewWdiff(runner shell.Runner, dir string, log *logger.Logger) *Wdiff {
	if log == nil {
		log = logger.Nop()
	}
	return &Wdiff{runner: runner, dir: dir, log: log}
}

func (w *Wdiff) Name() string { return KindWdiff }

// "<file>: <n> words  <m> <p>% common  ..."
var statsLine = regexp.MustCompile(`: (\d+) words?\s+(\d+) (\d+)% common`)

func (w *Wdiff) Shared(ctx context.Context, oldPath, newPath string) (int, bool, error) {
	// -1 -2 -3 suppress the diff itself and leave only the statistics.
	spec := shell.Spec{
		Argv: []string{"wdiff", "--statistics", "-1", "-2", "-3", oldPath, newPath},
		Dir:  w.dir,
	}
	res := w.runner.Run(ctx, spec)
	// Exit 1 only means the inputs differ.
	if err := res.Check(spec, 0, 1); err != nil {
		if res.Err != nil {
			return 0, false, err
		}
		w.log.Debugf("wdiff %s %s: %v", oldPath, newPath, err)
		return 0, false, nil
	}

	pct, ok := parseStats(res.Stdout)
	if !ok {
		w.log.Debugf("wdiff %s %s: no statistics", oldPath, newPath)
	}
	return pct, ok, nil
}

// parseStats returns the common percentage of the second (new file)
// statistics line. Lines are matched by position, never by file name.
func parseStats(out []byte) (int, bool) {
	var matches [][]string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if m := statsLine.FindStringSubmatch(sc.Text()); m != nil {
			matches = append(matches, m)
		}
	}
	if len(matches) != 2 {
		return 0, false
	}
	pct, err := strconv.Atoi(matches[1][3])
	if err != nil {
		return 0, false
	}
	return pct, true
}
