package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/csb-labs/csb/internal/sandbox"
)

// printWritten lists the files an operation wrote, relative to the project.
func printWritten(w io.Writer, report *sandbox.Report) {
	if report == nil {
		return
	}
	for _, p := range report.Written {
		rel, err := filepath.Rel(report.Layout.Root, p)
		if err != nil {
			rel = p
		}
		fmt.Fprintf(w, "  %s %s\n", successStyle.Render("wrote"), rel)
	}
	for _, name := range report.Unknown {
		fmt.Fprintf(w, "  %s %s is not a known server and was skipped\n", warningStyle.Render("warn"), name)
	}
	if report.Sync != nil {
		printSync(w, report.Sync)
	}
}

func printSync(w io.Writer, s *sandbox.SyncReport) {
	fmt.Fprintf(w, "  %s %d context item(s) from %d ancestor level(s), %d link(s)\n",
		successStyle.Render("staged"), len(s.Items), len(s.Discovery.Levels), len(s.Manifest.Links))
	for _, l := range s.Renamed() {
		fmt.Fprintf(w, "  %s %s exposed as %s\n", hintStyle.Render("renamed"), l.Target, l.Link)
	}
	for _, warn := range s.Warnings {
		fmt.Fprintf(w, "  %s %v\n", warningStyle.Render("skipped"), warn)
	}
}
