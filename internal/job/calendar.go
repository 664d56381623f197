package job

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"gameday/internal/ics"
	"gameday/internal/schedule"
	"gameday/internal/snapshot"
)

// Calendar scrapes the stadium's iCalendar feed and writes the stadium
// snapshot.
type Calendar struct {
	deps Deps
}

func (j *Calendar) Name() string { return "calendar" }

func (j *Calendar) Run(ctx context.Context) error {
	cfg := j.deps.Config
	now := j.deps.now()

	body, err := j.deps.Fetcher.Text(ctx, cfg.Calendar.URL)
	if err != nil {
		return err
	}

	events := ics.Extract(body, ics.Options{
		Venue:         j.deps.Venue,
		MislabeledUTC: cfg.Calendar.MislabeledUTC,
		// One day back so an event already underway still counts as today.
		RangeStart: now.AddDate(0, 0, -1),
		RangeEnd:   now.AddDate(0, 0, cfg.Calendar.HorizonDays),
	}, j.deps.Logger.With(zap.String("job", j.Name())))

	res := schedule.Normalize(events, now, j.deps.Venue)
	snap := snapshot.NewVenue(res, now)
	return snapshot.Write(filepath.Join(cfg.OutputDir, cfg.Calendar.Output), snap)
}
