// Command gameday scrapes venue schedule sources into the static JSON
// snapshots the traffic dashboard reads. It normally runs each source job
// once and exits (an external scheduler handles retries); -daemon keeps it
// resident on the configured cron schedule.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gameday/internal/config"
	"gameday/internal/fetch"
	"gameday/internal/job"
	"gameday/internal/logging"
)

type flagConfig struct {
	configPath string
	jobName    string
	daemon     bool
	debug      bool
}

func main() {
	flags := parseFlags()

	logger := logging.NewLogger(flags.debug)
	defer logger.Sync()

	logger.Info("gameday starting", zap.String("version", "1.0.0"))

	conf, err := config.Load(flags.configPath)
	if err != nil {
		logger.Error("failed to load config", zap.String("config_path", flags.configPath), zap.Error(err))
		os.Exit(1)
	}
	venue, err := conf.Location()
	if err != nil {
		logger.Error("invalid timezone", zap.String("timezone", conf.Timezone), zap.Error(err))
		os.Exit(1)
	}

	logger.Info("effective config",
		zap.String("timezone", conf.Timezone),
		zap.String("output_dir", conf.OutputDir),
		zap.String("job", flags.jobName),
		zap.Bool("daemon", flags.daemon),
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("signal received, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	deps := job.Deps{
		Config:  conf,
		Venue:   venue,
		Fetcher: fetch.NewClient(conf.CacheDir, conf.UserAgent, logger),
		Logger:  logger,
		Now:     time.Now,
	}

	jobs, err := job.ByName(flags.jobName, deps)
	if err != nil {
		logger.Error("unknown job", zap.Error(err))
		os.Exit(2)
	}

	if flags.daemon {
		if err := job.RunCron(ctx, conf.RefreshCron, jobs, logger); err != nil {
			logger.Error("scheduler failed", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("gameday exiting")
		return
	}

	if err := job.RunAll(ctx, jobs, logger); err != nil {
		os.Exit(1)
	}
	logger.Info("gameday exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "gameday.yaml", "Path to config file")
	flag.StringVar(&cfg.jobName, "job", "all", "Job to run: all, league, calendar, listing, validate")
	flag.BoolVar(&cfg.daemon, "daemon", false, "Stay resident and run jobs on the configured cron schedule")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
