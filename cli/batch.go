//go:build !js
// +build !js

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/simukka/pfxr/audio"
	"github.com/simukka/pfxr/common"
)

type batchJob struct {
	index int
	seed  uint32
	path  string
}

// batchJobs derives one seed per output file from the base seed.
func batchJobs(t audio.Template, base uint32, count int, dir string) []batchJob {
	jobs := make([]batchJob, count)
	for i := range jobs {
		seed := common.DeriveSeed(base, i)
		jobs[i] = batchJob{
			index: i,
			seed:  seed,
			path:  filepath.Join(dir, fmt.Sprintf("%s-%03d-%d.wav", t, i, seed)),
		}
	}
	return jobs
}

func runBatch(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("batch")
	name := fs.String("t", "", "template name")
	base := fs.Uint("seed", 1, "base seed; file i uses a seed derived from it")
	count := fs.Int("n", 16, "number of sounds")
	dir := fs.String("dir", ".", "output directory")
	workers := fs.Int("workers", runtime.NumCPU(), "parallel renders")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return errors.New("-t is required")
	}
	t, err := audio.ParseTemplate(*name)
	if err != nil {
		return err
	}
	if *count <= 0 {
		return fmt.Errorf("-n must be positive, got %d", *count)
	}
	if *base == 0 || *base > 0xFFFFFFFF {
		return fmt.Errorf("-seed must be in [1, 4294967295], got %d", *base)
	}
	if *workers <= 0 {
		*workers = 1
	}
	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return err
	}

	jobs := batchJobs(t, uint32(*base), *count, *dir)

	// Each job owns its generator and buffer; renders share nothing.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := audio.ApplyTemplate(t, job.seed)
			if err := audio.WriteWAVFile(job.path, audio.Render(s).Data()); err != nil {
				return fmt.Errorf("%s: %w", job.path, err)
			}
			a.log.WithFields(logrus.Fields{
				"index": job.index,
				"seed":  job.seed,
				"path":  job.path,
			}).Debug("Rendered")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"template": t,
		"count":    len(jobs),
		"dir":      *dir,
	}).Info("Batch complete")
	return nil
}
