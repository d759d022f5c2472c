package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"

	"github.com/llehouerou/ncmtag/internal/tagger"
)

// progress is a terminal progress bar; it does nothing when stdout is not a
// terminal.
type progress struct {
	bar *pb.ProgressBar
}

func startProgress(total int, prefix string) *progress {
	if total == 0 || !isatty.IsTerminal(os.Stdout.Fd()) {
		return &progress{}
	}
	bar := pb.New(total)
	bar.SetWriter(os.Stdout)
	bar.SetTemplateString(`{{ string . "prefix" }} {{ counters . }} {{ bar . }} {{ percent . }} {{ string . "current" }}`)
	bar.Set("prefix", prefix)
	bar.Start()
	return &progress{bar: bar}
}

func (p *progress) done(job tagger.Job, _ error) {
	if p.bar == nil {
		return
	}
	p.bar.Set("current", filepath.Base(job.AudioPath))
	p.bar.Increment()
}

func (p *progress) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

// runBatch tags jobs with a progress bar and prints the report. It fails
// when any job failed for a reason other than an invalid container.
func runBatch(ctx context.Context, w io.Writer, t *tagger.Tagger, jobs []tagger.Job, prefix string) error {
	bar := startProgress(len(jobs), prefix)
	report := t.Run(ctx, jobs, bar.done)
	bar.finish()

	printReport(w, report)
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d files failed", len(report.Failed), report.Total())
	}
	return nil
}
