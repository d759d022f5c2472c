package tagger

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/llehouerou/ncmtag/internal/tags"
)

const defaultWorkers = 4

// Failure is a track that could not be tagged.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a batch run.
type Report struct {
	Tagged  int
	Skipped []string // files with an invalid audio container
	Failed  []Failure
}

// Total returns the number of jobs accounted for.
func (r *Report) Total() int {
	return r.Tagged + len(r.Skipped) + len(r.Failed)
}

// Run tags jobs concurrently on at most Options.Workers goroutines. done, when
// not nil, is called after each job with its outcome. Jobs not started when
// ctx is cancelled are reported as failed with the context error.
func (t *Tagger) Run(ctx context.Context, jobs []Job, done func(Job, error)) *Report {
	workers := t.opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		report = &Report{}
	)
	sem := semaphore.NewWeighted(int64(workers))

	record := func(job Job, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err == nil:
			report.Tagged++
		case errors.Is(err, tags.ErrInvalidContainer):
			report.Skipped = append(report.Skipped, job.AudioPath)
		default:
			report.Failed = append(report.Failed, Failure{Path: job.AudioPath, Err: err})
		}
		if done != nil {
			done(job, err)
		}
	}

	for _, job := range jobs {
		if err := sem.Acquire(ctx, 1); err != nil {
			record(job, err)
			continue
		}

		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			defer sem.Release(1)
			record(job, t.TagTrack(ctx, job))
		}(job)
	}

	wg.Wait()
	return report
}
