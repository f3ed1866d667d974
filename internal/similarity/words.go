// SPDX-License-Identifier: AGPL-3.0-or-later

package similarity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// Words is the builtin engine: a longest-matching-blocks comparison over
// whitespace separated words, reported the way wdiff reports "% common" for
// the second file.
type Words struct {
	root string
}

// NewWords creates a builtin engine resolving paths against root.
func NewWords(root string) *Words {
	return &Words{root: root}
}

func (w *Words) Name() string { return KindBuiltin }

func (w *Words) Shared(ctx context.Context, oldPath, newPath string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	oldWords, ok, err := w.words(oldPath)
	if err != nil || !ok {
		return 0, false, err
	}
	newWords, ok, err := w.words(newPath)
	if err != nil || !ok || len(newWords) == 0 {
		return 0, false, err
	}

	return SharedWords(oldWords, newWords), true, nil
}

// SharedWords returns the floored percentage of b's words that appear in
// matching blocks with a.
func SharedWords(a, b []string) int {
	if len(b) == 0 {
		return 0
	}
	// Junk heuristics would drop common Python tokens.
	m := difflib.NewMatcherWithJunk(a, b, false, nil)
	matched := 0
	for _, blk := range m.GetMatchingBlocks() {
		matched += blk.Size
	}
	return matched * 100 / len(b)
}

// words splits a text file; ok is false for binary content.
func (w *Words) words(rel string) ([]string, bool, error) {
	data, err := os.ReadFile(filepath.Join(w.root, rel))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", rel, err)
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return nil, false, nil
	}
	return strings.Fields(string(data)), true, nil
}
