// Package job wires the per-source scrape pipelines: fetch, extract,
// normalize, write. Each job is a short-lived single-threaded run that owns
// its output file exclusively; jobs never coordinate and a failed job is
// retried by whatever scheduler invoked it, not internally.
package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"gameday/internal/config"
	"gameday/internal/fetch"
)

// Job is one source-specific scrape run.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Deps bundles what every job needs. Now is injectable so tests can pin the
// reference instant.
type Deps struct {
	Config  *config.Config
	Venue   *time.Location
	Fetcher *fetch.Client
	Logger  *zap.Logger
	Now     func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// All returns the three scrape jobs in their conventional order. The
// validate job is not part of a normal run; it is invoked by name.
func All(deps Deps) []Job {
	return []Job{
		&League{deps: deps},
		&Calendar{deps: deps},
		&Listing{deps: deps},
	}
}

// ByName resolves a job selector from the command line.
func ByName(name string, deps Deps) ([]Job, error) {
	switch name {
	case "all":
		return All(deps), nil
	case "league":
		return []Job{&League{deps: deps}}, nil
	case "calendar":
		return []Job{&Calendar{deps: deps}}, nil
	case "listing":
		return []Job{&Listing{deps: deps}}, nil
	case "validate":
		return []Job{&Validate{deps: deps}}, nil
	default:
		return nil, fmt.Errorf("no job named %q", name)
	}
}

// RunAll runs each job to completion and returns the joined errors. One
// source failing must not keep the others from refreshing their snapshots.
func RunAll(ctx context.Context, jobs []Job, logger *zap.Logger) error {
	var errs []error
	for _, j := range jobs {
		start := time.Now()
		if err := j.Run(ctx); err != nil {
			logger.Error("job failed", zap.String("job", j.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", j.Name(), err))
			continue
		}
		logger.Info("job completed",
			zap.String("job", j.Name()),
			zap.Duration("took", time.Since(start)),
		)
	}
	return errors.Join(errs...)
}

// RunCron runs the jobs on the given cron expression until ctx is canceled.
// Used by daemon mode; scheduled failures are logged, not fatal, since the
// next tick retries.
func RunCron(ctx context.Context, spec string, jobs []Job, logger *zap.Logger) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := RunAll(ctx, jobs, logger); err != nil {
			logger.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	logger.Info("scheduler started", zap.String("cron", spec))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
