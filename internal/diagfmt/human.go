package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"dokita/internal/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	noteColor    = color.New(color.FgCyan)
	codeColor    = color.New(color.FgMagenta)
	successColor = color.New(color.FgGreen, color.Bold)
	fileColor    = color.New(color.Faint)
)

func severityLabel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return errorColor.Sprint("[ERROR]")
	case diag.SevWarning:
		return warningColor.Sprint("[WARNING]")
	default:
		return noteColor.Sprint("[NOTE]")
	}
}

// Human writes the bag for a person reading a terminal. Expects the bag to
// be sorted already.
func Human(w io.Writer, bag *diag.Bag) {
	items := bag.Items()
	if len(items) == 0 {
		successColor.Fprintln(w, "No issues found. Your project looks healthy!")
		return
	}

	fmt.Fprintf(w, "\nFound %d issues:\n", len(items))
	for _, f := range items {
		loc := f.FilePath
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.FilePath, f.Line)
		}
		fmt.Fprintf(w, "%s %s: %s", severityLabel(f.Severity), codeColor.Sprintf("(%s)", f.Code), f.Message)
		if loc != "" {
			fmt.Fprintf(w, " %s", fileColor.Sprintf("[%s]", loc))
		}
		fmt.Fprintln(w)
	}
}
