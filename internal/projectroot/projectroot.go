// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the repository a command runs in.
package projectroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no enclosing repository exists.
var ErrNotFound = errors.New("not inside a git repository")

// Find walks up from dir to the first directory containing .git. Linked
// worktrees and submodules, where .git is a file, count as well.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	for {
		if _, err := os.Stat(filepath.Join(abs, ".git")); err == nil {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		abs = parent
	}
}
