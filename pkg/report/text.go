package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type colorFunc func(a ...any) string

// TextWriter writes changes as colored diffs for humans.
type TextWriter struct {
	out    io.Writer
	red    colorFunc
	green  colorFunc
	yellow colorFunc
}

func NewTextWriter(out io.Writer) *TextWriter {
	return &TextWriter{
		out:    out,
		red:    color.New(color.FgRed).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
	}
}

func (w *TextWriter) WriteChange(change *Change) {
	message := fmt.Sprintf("%s can be updated from %s to %s", change.Identity, change.OldRef, change.NewRef)
	if change.Bump != "" {
		message += fmt.Sprintf(" (%s)", change.Bump)
	}
	if change.OldLine == "" {
		fmt.Fprintf(w.out, "INFO %s\n%s:%d\n", message, change.File, change.Line)
		return
	}
	fmt.Fprintf(w.out, `INFO %s
%s:%d
%s
%s
`, message, change.File, change.Line, w.red("- "+change.OldLine), w.green("+ "+change.NewLine))
}

func (w *TextWriter) Write(summary *Summary) {
	for _, change := range summary.Changes {
		w.WriteChange(change)
	}
	for _, warn := range summary.Warnings {
		fmt.Fprintf(w.out, "%s %s\n", w.yellow("WARN"), warn.String())
	}
}
