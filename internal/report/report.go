// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report renders the gate's human-readable output.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/dbast/checkcommit/internal/git"
	"github.com/dbast/checkcommit/internal/runner"
)

const (
	green = "\033[1;32m"
	red   = "\033[1;31m"
	reset = "\033[0m"
)

// Options control rendering.
type Options struct {
	Color    bool
	Verbose  bool
	FailOpen bool
}

// Printer writes the report. It implements runner.Reporter.
type Printer struct {
	out  io.Writer
	opts Options
}

var _ runner.Reporter = (*Printer)(nil)

// New creates a Printer on out.
func New(out io.Writer, opts Options) *Printer {
	return &Printer{out: out, opts: opts}
}

// NewFor creates a Printer on w. mode is auto, always or never; auto
// enables color only when w is a terminal. Terminals get an ANSI-capable
// writer on every platform.
func NewFor(w io.Writer, mode string, verbose, failOpen bool) (*Printer, error) {
	fd := ^uintptr(0)
	f, isFile := w.(*os.File)
	if isFile {
		fd = f.Fd()
	}
	color, err := ColorEnabled(mode, fd)
	if err != nil {
		return nil, err
	}
	if isFile {
		w = colorable.NewColorable(f)
	}
	return New(w, Options{Color: color, Verbose: verbose, FailOpen: failOpen}), nil
}

// ColorEnabled resolves a --color mode for the terminal behind fd.
func ColorEnabled(mode string, fd uintptr) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd), nil
	default:
		return false, fmt.Errorf("invalid color mode %q (must be auto, always or never)", mode)
	}
}

// Banner names the resolved base commit.
func (p *Printer) Banner(short string) {
	p.line(green, fmt.Sprintf("Checking from %s:", short))
}

// Commits lists the non-merge commits in range.
func (p *Printer) Commits(commits []git.Commit) {
	for _, c := range commits {
		if c.IsMerge() {
			continue
		}
		p.line("", fmt.Sprintf("%s %s", c.Short, c.Subject))
	}
}

// Result prints the outcome of one check. Passing and skipped checks are
// only shown when verbose.
func (p *Printer) Result(res runner.Result) {
	switch res.Status {
	case runner.StatusFail:
		for _, f := range res.Failures {
			for _, d := range f.Details {
				p.line("", d)
			}
			p.line(red, f.Message)
		}
		if len(res.Failures) == 0 {
			p.line(red, fmt.Sprintf("%s failed", res.Check))
		}
	case runner.StatusError:
		if p.opts.FailOpen {
			p.line("", fmt.Sprintf("warning: %s inconclusive: %s", res.Check, res.Note))
		} else {
			p.line(red, fmt.Sprintf("inconclusive: %s: %s", res.Check, res.Note))
		}
	case runner.StatusSkip:
		if p.opts.Verbose {
			p.line("", fmt.Sprintf("SKIP: %s (%s)", res.Check, res.Note))
		}
	case runner.StatusPass:
		if p.opts.Verbose {
			if res.Note != "" {
				p.line(green, fmt.Sprintf("PASS: %s (%s)", res.Check, res.Note))
			} else {
				p.line(green, fmt.Sprintf("PASS: %s", res.Check))
			}
		}
	}
}

func (p *Printer) line(color, text string) {
	if color == "" || !p.opts.Color {
		_, _ = fmt.Fprintln(p.out, text)
		return
	}
	_, _ = fmt.Fprintf(p.out, "%s%s%s\n", color, text, reset)
}
