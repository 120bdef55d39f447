// Package report writes the bracketed status lines devboot prints while it
// works ("  [ OK ] golang.go installed"). Tags are colored when the output is
// a terminal and NO_COLOR is not set.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Status is a line tag.
type Status int

const (
	StatusOK Status = iota
	StatusSkip
	StatusInfo
	StatusWarn
	StatusMiss
	StatusFail
)

var tags = map[Status]struct {
	text  string
	color *color.Color
}{
	StatusOK:   {"[ OK ]", color.New(color.FgGreen)},
	StatusSkip: {"[SKIP]", color.New(color.FgCyan)},
	StatusInfo: {"[INFO]", color.New(color.FgBlue)},
	StatusWarn: {"[WARN]", color.New(color.FgYellow)},
	StatusMiss: {"[MISS]", color.New(color.FgYellow)},
	StatusFail: {"[FAIL]", color.New(color.FgRed, color.Bold)},
}

// Reporter writes status lines to an io.Writer.
type Reporter struct {
	w     io.Writer
	color bool
}

// New returns a Reporter for w. Color is used only for the process's own
// stdout/stderr; buffers and files get plain text.
func New(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{
		w:     w,
		color: !color.NoColor && (w == os.Stdout || w == os.Stderr),
	}
}

// Section prints a heading such as "Extensions:".
func (r *Reporter) Section(title string) {
	if r.color {
		title = color.New(color.Bold).Sprint(title)
	}
	fmt.Fprintf(r.w, "%s:\n", title)
}

// Line prints one indented status line.
func (r *Reporter) Line(s Status, format string, args ...any) {
	tag := tags[s]
	text := tag.text
	if r.color {
		text = tag.color.Sprint(text)
	}
	fmt.Fprintf(r.w, "  %s %s\n", text, fmt.Sprintf(format, args...))
}

func (r *Reporter) OK(format string, args ...any)   { r.Line(StatusOK, format, args...) }
func (r *Reporter) Skip(format string, args ...any) { r.Line(StatusSkip, format, args...) }
func (r *Reporter) Info(format string, args ...any) { r.Line(StatusInfo, format, args...) }
func (r *Reporter) Warn(format string, args ...any) { r.Line(StatusWarn, format, args...) }
func (r *Reporter) Miss(format string, args ...any) { r.Line(StatusMiss, format, args...) }
func (r *Reporter) Fail(format string, args ...any) { r.Line(StatusFail, format, args...) }

// Printf writes free-form text with no tag or indentation.
func (r *Reporter) Printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}
