package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/llehouerou/ncmtag/internal/tagger"
)

var (
	colorInfo    = color.New(color.FgCyan)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
	colorError   = color.New(color.FgRed)
	colorLabel   = color.New(color.Bold)
)

// printReport writes the outcome of a batch run.
func printReport(w io.Writer, r *tagger.Report) {
	_, _ = colorSuccess.Fprintf(w, "Tagged %d of %d files\n", r.Tagged, r.Total())

	if len(r.Skipped) > 0 {
		_, _ = colorWarning.Fprintf(w, "Skipped %d files that are not valid audio:\n", len(r.Skipped))
		for _, p := range r.Skipped {
			_, _ = fmt.Fprintf(w, "  %s\n", p)
		}
	}

	if len(r.Failed) > 0 {
		_, _ = colorError.Fprintf(w, "Failed %d files:\n", len(r.Failed))
		for _, f := range r.Failed {
			_, _ = fmt.Fprintf(w, "  %s: %v\n", f.Path, f.Err)
		}
	}
}

// printMissing lists songs that had no downloaded file.
func printMissing(w io.Writer, ids []int64) {
	if len(ids) == 0 {
		return
	}
	_, _ = colorInfo.Fprintf(w, "%d songs not in manifest:", len(ids))
	for _, id := range ids {
		_, _ = fmt.Fprintf(w, " %d", id)
	}
	_, _ = fmt.Fprintln(w)
}
