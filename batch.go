package presquile

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/presquile/internal/copier"
)

// Job pairs a marker file with the audio file it describes.
type Job struct {
	Markers string
	Audio   string
}

// ApplyMany runs Apply for every job, several at a time.
//
// Outputs are returned in job order. The first failure cancels jobs that
// have not started yet; jobs already running finish. On failure the error
// names the audio file of the failing job:
//
//	outs, err := presquile.ApplyMany(ctx, []presquile.Job{
//	    {Markers: "ep1.csv", Audio: "ep1.mp3"},
//	    {Markers: "ep2.csv", Audio: "ep2.mp3"},
//	})
//
// Jobs whose enriched files would coincide are rejected with a
// DestinationConflictError before any job runs.
func ApplyMany(ctx context.Context, jobs []Job, opts ...Option) ([]string, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	if err := checkDestinations(jobs); err != nil {
		return nil, err
	}

	a := New(opts...)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU()) // Limit concurrent operations

	results := make([]string, len(jobs))

	for i, job := range jobs {
		g.Go(func() error {
			out, err := a.Apply(ctx, job.Markers, job.Audio)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Audio, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkDestinations rejects jobs that share an enriched path. Paths that
// cannot be resolved are left for Apply to report.
func checkDestinations(jobs []Job) error {
	owners := make(map[string]string, len(jobs))
	for _, job := range jobs {
		dst, err := copier.EnrichedPath(job.Audio)
		if err != nil {
			continue
		}
		if abs, err := filepath.Abs(dst); err == nil {
			dst = abs
		}
		if first, ok := owners[dst]; ok {
			return &DestinationConflictError{Dst: dst, First: first, Second: job.Audio}
		}
		owners[dst] = job.Audio
	}
	return nil
}
