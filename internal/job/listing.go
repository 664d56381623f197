package job

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"gameday/internal/fetch"
	"gameday/internal/listing"
	"gameday/internal/schedule"
	"gameday/internal/snapshot"
)

// Listing scrapes the ballpark's HTML events page and writes the non-league
// events snapshot.
type Listing struct {
	deps Deps
}

func (j *Listing) Name() string { return "listing" }

func (j *Listing) Run(ctx context.Context) error {
	cfg := j.deps.Config
	now := j.deps.now()

	var (
		body string
		err  error
	)
	if cfg.Listing.Rendered {
		body, err = fetch.RenderedText(ctx, fetch.RenderedOptions{URL: cfg.Listing.URL})
	} else {
		body, err = j.deps.Fetcher.Text(ctx, cfg.Listing.URL)
	}
	if err != nil {
		return err
	}

	events := listing.Extract(body, listing.Options{
		Venue:      j.deps.Venue,
		BaseOrigin: cfg.Listing.BaseOrigin,
	}, j.deps.Logger.With(zap.String("job", j.Name())))

	res := schedule.Normalize(events, now, j.deps.Venue)
	snap := snapshot.NewVenue(res, now)
	return snapshot.Write(filepath.Join(cfg.OutputDir, cfg.Listing.Output), snap)
}
