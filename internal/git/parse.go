// SPDX-License-Identifier: AGPL-3.0-or-later

package git

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x00"
)

// logFormat yields full sha, short sha, parents and subject per commit.
const logFormat = "--pretty=format:%H%x1f%h%x1f%P%x1f%s"

func parseLog(out []byte) ([]Commit, error) {
	var commits []Commit
	for _, rec := range strings.Split(string(out), recordSep) {
		rec = strings.TrimLeft(rec, "\n")
		if rec == "" {
			continue
		}
		fields := strings.SplitN(rec, fieldSep, 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed log record %q", rec)
		}
		commits = append(commits, Commit{
			SHA:     fields[0],
			Short:   fields[1],
			Parents: strings.Fields(fields[2]),
			Subject: fields[3],
		})
	}
	return commits, nil
}

// parseNameStatus parses `git diff --name-status -z` output. Renames and
// copies carry a similarity score and two paths.
func parseNameStatus(out []byte) ([]FileChange, error) {
	tokens := strings.Split(strings.TrimSuffix(string(out), recordSep), recordSep)
	if len(tokens) == 1 && tokens[0] == "" {
		return nil, nil
	}

	var changes []FileChange
	for i := 0; i < len(tokens); {
		code := tokens[i]
		if code == "" {
			return nil, fmt.Errorf("empty status at token %d", i)
		}
		status := FileStatus(code[0])
		switch status {
		case StatusRenamed, StatusCopied:
			if i+2 >= len(tokens) {
				return nil, fmt.Errorf("truncated %c record", status)
			}
			changes = append(changes, FileChange{Status: status, OldPath: tokens[i+1], Path: tokens[i+2]})
			i += 3
		default:
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("truncated %c record", status)
			}
			changes = append(changes, FileChange{Status: status, Path: tokens[i+1]})
			i += 2
		}
	}
	return changes, nil
}

// parseTree keeps the blob paths of `git ls-tree -z` output.
func parseTree(out []byte) []string {
	var paths []string
	for _, rec := range strings.Split(string(out), recordSep) {
		meta, path, ok := strings.Cut(rec, "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		if len(fields) < 2 || fields[1] != "blob" {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// ParseUnified extracts added and removed lines from a unified diff.
// File headers are never reported as content.
func ParseUnified(diff string) ([]DiffLine, error) {
	var (
		lines    []DiffLine
		path     string
		inHunk   bool
		oldLine  int
		newLine  int
		lastFrom string
	)

	sc := bufio.NewScanner(strings.NewReader(diff))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		text := sc.Text()

		switch {
		case strings.HasPrefix(text, "diff --git "):
			inHunk = false
			path = pathFromDiffHeader(text)
			continue
		case strings.HasPrefix(text, "@@"):
			o, n, err := parseHunkHeader(text)
			if err != nil {
				return nil, err
			}
			oldLine, newLine, inHunk = o, n, true
			continue
		}

		if !inHunk {
			switch {
			case strings.HasPrefix(text, "--- "):
				lastFrom = stripPrefix(strings.TrimPrefix(text, "--- "), "a/")
			case strings.HasPrefix(text, "+++ "):
				to := strings.TrimPrefix(text, "+++ ")
				if to == "/dev/null" {
					path = lastFrom
				} else {
					path = stripPrefix(to, "b/")
				}
			}
			continue
		}

		if text == "" {
			continue
		}
		switch text[0] {
		case '+':
			lines = append(lines, DiffLine{Path: path, Op: OpAdded, Line: newLine, Text: text[1:]})
			newLine++
		case '-':
			lines = append(lines, DiffLine{Path: path, Op: OpRemoved, Line: oldLine, Text: text[1:]})
			oldLine++
		case ' ':
			oldLine++
			newLine++
		case '\\':
			// "\ No newline at end of file"
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning diff: %w", err)
	}
	return lines, nil
}

// parseHunkHeader reads "@@ -a[,b] +c[,d] @@ ...".
func parseHunkHeader(h string) (int, int, error) {
	fields := strings.Fields(h)
	if len(fields) < 3 {
		return 0, 0, fmt.Errorf("malformed hunk header %q", h)
	}
	o, err := rangeStart(fields[1], "-")
	if err != nil {
		return 0, 0, fmt.Errorf("malformed hunk header %q: %w", h, err)
	}
	n, err := rangeStart(fields[2], "+")
	if err != nil {
		return 0, 0, fmt.Errorf("malformed hunk header %q: %w", h, err)
	}
	return o, n, nil
}

func rangeStart(field, sign string) (int, error) {
	if !strings.HasPrefix(field, sign) {
		return 0, fmt.Errorf("expected %s range, got %q", sign, field)
	}
	start, _, _ := strings.Cut(strings.TrimPrefix(field, sign), ",")
	return strconv.Atoi(start)
}

func pathFromDiffHeader(h string) string {
	rest := strings.TrimPrefix(h, "diff --git ")
	if i := strings.LastIndex(rest, " b/"); i >= 0 {
		return rest[i+3:]
	}
	return rest
}

func stripPrefix(p, prefix string) string {
	if strings.HasPrefix(p, `"`) {
		if uq, err := strconv.Unquote(p); err == nil {
			p = uq
		}
	}
	return strings.TrimPrefix(p, prefix)
}
