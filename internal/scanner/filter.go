// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"sort"
	"strings"
)

// FilterOptions defines criteria for including or excluding files.
type FilterOptions struct {
	// ExcludeDirs is a list of directory names to exclude.
	// Matching is segment-aware: "vendor" excludes "vendor/foo" and "pkg/vendor/bar",
	// but not "vendor_stuff/foo".
	ExcludeDirs []string

	// IncludeExtensions is a list of extensions to include (e.g., ".py").
	// If empty, all extensions are included.
	IncludeExtensions []string

	// UnderDirs restricts paths to these repo-relative directories.
	// If empty, every directory is included.
	UnderDirs []string
}

// FilterFiles applies the filter options to a list of file paths.
// It returns a new slice of strings, sorted deterministically.
func FilterFiles(paths []string, opts FilterOptions) []string {
	if len(paths) == 0 {
		return nil
	}

	var filtered []string
	for _, path := range paths {
		if shouldExclude(path, opts.ExcludeDirs) {
			continue
		}
		if !HasExtension(path, opts.IncludeExtensions) {
			continue
		}
		if len(opts.UnderDirs) > 0 && !underAny(path, opts.UnderDirs) {
			continue
		}
		filtered = append(filtered, path)
	}

	sort.Strings(filtered)
	return filtered
}

// Under reports whether path lies inside dir. Matching is segment-aware:
// "chirp/drivers" contains "chirp/drivers/foo.py" but not "chirp/drivers2/foo.py".
func Under(path, dir string) bool {
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" || dir == "." {
		return true
	}
	return strings.HasPrefix(path, dir+"/")
}

// HasExtension returns true if extensions is empty OR path matches one extension.
func HasExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Pathspecs turns extensions into git pathspecs (".py" -> "*.py").
func Pathspecs(extensions []string) []string {
	specs := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		specs = append(specs, "*"+ext)
	}
	return specs
}

func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		if Under(path, dir) {
			return true
		}
	}
	return false
}

// shouldExclude returns true if the path contains any of the excluded segments.
func shouldExclude(path string, excludes []string) bool {
	if len(excludes) == 0 {
		return false
	}
	parts := strings.Split(path, "/")
	for _, part := range parts {
		for _, exclude := range excludes {
			if part == exclude {
				return true
			}
		}
	}
	return false
}
