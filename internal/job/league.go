package job

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"gameday/internal/dates"
	"gameday/internal/mlb"
	"gameday/internal/snapshot"
)

// League scrapes the ballpark's league schedule API and writes the ballpark
// snapshot. The API yields one authoritative record per game, so no
// extractor runs; only the today derivation applies.
type League struct {
	deps Deps
}

func (j *League) Name() string { return "league" }

func (j *League) Run(ctx context.Context) error {
	cfg := j.deps.Config
	now := j.deps.now()

	client := mlb.NewClient(j.deps.Fetcher, cfg.League.BaseURL, cfg.League.TeamID)
	game, err := client.NextGame(ctx, now, cfg.League.SearchDays, j.deps.Venue)
	if err != nil {
		return err
	}

	isToday := game != nil && dates.SameDay(game.Start, now, j.deps.Venue)
	if game != nil {
		j.deps.Logger.Info("next game resolved",
			zap.String("opponent", game.Opponent),
			zap.Bool("home", game.IsHome),
			zap.Bool("today", isToday),
			zap.String("date", dates.DayKey(game.Start, j.deps.Venue)),
		)
	} else {
		j.deps.Logger.Info("no game in search window", zap.Int("search_days", cfg.League.SearchDays))
	}

	snap := snapshot.NewBallpark(game, isToday, cfg.League.HomeVenue, now)
	return snapshot.Write(filepath.Join(cfg.OutputDir, cfg.League.Output), snap)
}
