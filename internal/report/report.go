// Package report presents rename outcomes: console lines, a table, and a YAML file.
package report

import (
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/staves/internal/renamer"
)

// Line formats the progress line for one outcome.
func Line(o renamer.Outcome) string {
	name := o.File.Name()
	switch o.Status {
	case renamer.Renamed:
		return fmt.Sprintf("Renamed: %s -> %s", name, o.FinalName)
	case renamer.CollisionResolved:
		return fmt.Sprintf("Renamed: %s -> %s (target taken)", name, o.FinalName)
	case renamer.NoMatch:
		return fmt.Sprintf("No match: %s", name)
	default:
		return fmt.Sprintf("Failed: %s: %v", name, o.Err)
	}
}

// WriteSummary prints the summary line, plus a failure count when files failed.
func WriteSummary(w io.Writer, s renamer.Summary) {
	fmt.Fprintln(w, s.String())
	if s.Failed > 0 {
		fmt.Fprintf(w, "Failed: %d files\n", s.Failed)
	}
}
