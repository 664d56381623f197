package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// LeagueConfig describes the ballpark's league schedule API source.
type LeagueConfig struct {
	// BaseURL is the stats API origin.
	BaseURL string `yaml:"base_url" json:"base_url"`
	// TeamID is the league's numeric team identifier.
	TeamID int `yaml:"team_id" json:"team_id"`
	// SearchDays is the forward search window for the next game.
	SearchDays int `yaml:"search_days" json:"search_days"`
	// HomeVenue names the home ballpark when the API omits the venue.
	HomeVenue string `yaml:"home_venue" json:"home_venue"`
	// Output is the snapshot file name under OutputDir.
	Output string `yaml:"output" json:"output"`
}

// CalendarConfig describes the stadium's iCalendar feed source.
type CalendarConfig struct {
	// URL is the ICS endpoint.
	URL string `yaml:"url" json:"url"`
	// MislabeledUTC marks a feed whose Z-suffixed date-times are actually
	// wall-clock in the venue timezone. Applies only to this source.
	MislabeledUTC bool `yaml:"mislabeled_utc" json:"mislabeled_utc"`
	// HorizonDays bounds recurrence expansion into the future.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`
	// Output is the snapshot file name under OutputDir.
	Output string `yaml:"output" json:"output"`
	// ListingURL is the venue's HTML listing page, used only by the
	// validate job to cross-check feed times against the website.
	ListingURL string `yaml:"listing_url" json:"listing_url"`
}

// ListingConfig describes the ballpark's HTML events listing source.
type ListingConfig struct {
	// URL is the events listing page.
	URL string `yaml:"url" json:"url"`
	// BaseOrigin resolves relative detail links found on the page.
	BaseOrigin string `yaml:"base_origin" json:"base_origin"`
	// Rendered fetches the page through headless Chromium instead of a
	// plain GET, for client-rendered listings.
	Rendered bool `yaml:"rendered" json:"rendered"`
	// Output is the snapshot file name under OutputDir.
	Output string `yaml:"output" json:"output"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA civil timezone governing "today" for all venues
	// (e.g. "America/New_York").
	Timezone string `yaml:"timezone" json:"timezone"`

	// OutputDir is where snapshot JSON files are written.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// CacheDir backs conditional-GET caching of fetched sources.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// UserAgent is sent on all outbound fetches.
	UserAgent string `yaml:"user_agent" json:"user_agent"`

	// RefreshCron is the daemon-mode schedule (e.g. "*/30 * * * *").
	RefreshCron string `yaml:"refresh" json:"refresh"`

	League   LeagueConfig   `yaml:"league" json:"league"`
	Calendar CalendarConfig `yaml:"calendar" json:"calendar"`
	Listing  ListingConfig  `yaml:"listing" json:"listing"`
}

// DefaultConfig returns an in-memory default configuration mirroring the
// Navy Yard deployment.
func DefaultConfig() *Config {
	return &Config{
		Timezone:    "America/New_York",
		OutputDir:   "data",
		CacheDir:    "./var/fetch-cache",
		UserAgent:   "gameday/1.0 (+https://github.com/dalpaeng/gameday)",
		RefreshCron: "*/30 * * * *",
		League: LeagueConfig{
			BaseURL:    "https://statsapi.mlb.com",
			TeamID:     120,
			SearchDays: 60,
			HomeVenue:  "Nationals Park",
			Output:     "nats.json",
		},
		Calendar: CalendarConfig{
			URL:           "https://audifield.com/events/?ical=1",
			MislabeledUTC: true,
			HorizonDays:   366,
			Output:        "audi.json",
			ListingURL:    "https://audifield.com/events/",
		},
		Listing: ListingConfig{
			URL:        "https://www.mlb.com/nationals/tickets/events",
			BaseOrigin: "https://www.mlb.com",
			Rendered:   false,
			Output:     "natspark.json",
		},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs (e.g. older versions) still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.League.BaseURL == "" {
		c.League.BaseURL = def.League.BaseURL
	}
	if c.League.TeamID == 0 {
		c.League.TeamID = def.League.TeamID
	}
	if c.League.SearchDays <= 0 {
		c.League.SearchDays = def.League.SearchDays
	}
	if c.League.HomeVenue == "" {
		c.League.HomeVenue = def.League.HomeVenue
	}
	if c.League.Output == "" {
		c.League.Output = def.League.Output
	}
	if c.Calendar.HorizonDays <= 0 {
		c.Calendar.HorizonDays = def.Calendar.HorizonDays
	}
	if c.Calendar.Output == "" {
		c.Calendar.Output = def.Calendar.Output
	}
	if c.Listing.BaseOrigin == "" {
		c.Listing.BaseOrigin = def.Listing.BaseOrigin
	}
	if c.Listing.Output == "" {
		c.Listing.Output = def.Listing.Output
	}
}

// Location loads the configured civil timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create parent directory if needed, write a
//     default config with 0600 perms, return the default config.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg with the error so the caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path: parent directory ensured, YAML
// marshalled, written atomically via temp file + rename, 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".gameday-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
