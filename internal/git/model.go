// SPDX-License-Identifier: AGPL-3.0-or-later

package git

// Commit is one entry of the range history.
type Commit struct {
	SHA     string   `json:"sha"`
	Short   string   `json:"short"`
	Parents []string `json:"parents"`
	Subject string   `json:"subject"`
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// FileStatus is the single-letter status git diff --name-status reports.
type FileStatus byte

const (
	StatusAdded    FileStatus = 'A'
	StatusCopied   FileStatus = 'C'
	StatusDeleted  FileStatus = 'D'
	StatusModified FileStatus = 'M'
	StatusRenamed  FileStatus = 'R'
	StatusType     FileStatus = 'T'
)

// FileChange is one path touched by the range.
type FileChange struct {
	Status FileStatus
	Path   string
	// OldPath is set for renames and copies.
	OldPath string
}

// Op marks a diff line as added or removed.
type Op byte

const (
	OpAdded   Op = '+'
	OpRemoved Op = '-'
)

// DiffLine is one added or removed line of a unified diff. Line is the line
// number in the new file for additions and in the old file for removals.
type DiffLine struct {
	Path string
	Op   Op
	Line int
	Text string
}

// Range is the resolved change range; the head side is always HEAD.
type Range struct {
	Base  string
	Short string
}

// Spec returns the revision range argument, e.g. "origin/master..".
func (r Range) Spec() string {
	return r.Base + ".."
}
