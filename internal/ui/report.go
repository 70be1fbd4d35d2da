// Package ui renders bootstrap results for a terminal.
//
// Colours follow fatih/color, which already honours NO_COLOR and disables
// itself when stdout is not a TTY. InitColors adds the --no-color switch.
package ui

import (
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/fathima-sithara/chatdb-init/internal/bootstrap"
)

var (
	Red   = color.New(color.FgRed)
	Green = color.New(color.FgGreen)
	Bold  = color.New(color.Bold)
	Dim   = color.New(color.Faint)
)

func InitColors(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

func PrintResult(w io.Writer, res *bootstrap.Result) {
	_, _ = Bold.Fprintf(w, "Bootstrap of %s\n", res.Database)
	for _, s := range res.Steps {
		_, _ = Green.Fprintf(w, "  ✓ %s\n", s)
	}
	_, _ = Dim.Fprintf(w, "  %d step(s) in %s\n", len(res.Steps), res.Duration.Round(time.Millisecond))
}

// PrintReport writes one line per check and returns whether all passed.
func PrintReport(w io.Writer, rep *bootstrap.Report) bool {
	_, _ = Bold.Fprintf(w, "Verification of %s\n", rep.Database)
	for _, c := range rep.Checks {
		if c.OK {
			_, _ = Green.Fprintf(w, "  ✓ %s\n", c.Name)
			continue
		}
		line := "  ✗ " + c.Name
		if c.Detail != "" {
			line += ": " + c.Detail
		}
		_, _ = Red.Fprintln(w, line)
	}

	failed := len(rep.Failed())
	if failed == 0 {
		_, _ = Green.Fprintf(w, "All %d checks passed\n", len(rep.Checks))
		return true
	}
	_, _ = Red.Fprintf(w, "%d of %d checks failed\n", failed, len(rep.Checks))
	return false
}
