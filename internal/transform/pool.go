package transform

import (
	"context"
	"image"
	"runtime"

	"github.com/comictools/c2e/internal/config"
	"github.com/comictools/c2e/internal/pageparser"
	"github.com/comictools/c2e/internal/profile"
	"github.com/comictools/c2e/internal/sidecar"
	"golang.org/x/sync/errgroup"
)

// Job is one unit of work: a decoded source image and the page variants
// the parser derived from it.
type Job struct {
	Source image.Image
	Pages  []pageparser.Page
}

// RunPool fans jobs out across runtime.NumCPU() workers (§5: "the
// image-transform pool uses all CPUs"), cancels on the first worker error
// (§5: "Any worker failure also cancels the shared context immediately —
// at-most-one error is surfaced"), and returns the transform results in
// the same job order they were submitted, regardless of completion order
// (§5: "workers may complete in any order; the final spine order is
// determined by sanitized filenames").
func RunPool(ctx context.Context, jobs []Job, cfg config.Config, p profile.Profile, sc *sidecar.Sidecar) ([][]Result, error) {
	results := make([][]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			out := make([]Result, 0, len(job.Pages))
			for _, page := range job.Pages {
				r, err := Transform(job.Source, page, cfg, p, sc)
				if err != nil {
					return err
				}
				out = append(out, r)
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
