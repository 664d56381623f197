package job

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"gameday/internal/snapshot"
)

// Validate cross-checks the stadium snapshot against the times published on
// the venue's own listing page. The feed has a history of timezone defects;
// this job is the tripwire that catches a regression before the dashboard
// shows a wrong start time all day. Any mismatch fails the run.
type Validate struct {
	deps Deps
}

func (j *Validate) Name() string { return "validate" }

// websiteEvent is one event as displayed on the listing page.
type websiteEvent struct {
	title     string
	dateLabel string // e.g. "October 4"
	startMin  int    // minutes since local midnight
	endMin    int
}

func (j *Validate) Run(ctx context.Context) error {
	cfg := j.deps.Config
	now := j.deps.now()
	logger := j.deps.Logger.With(zap.String("job", j.Name()))

	path := filepath.Join(cfg.OutputDir, cfg.Calendar.Output)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("validate: read %s: %w", path, err)
	}
	var snap snapshot.Venue
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("validate: decode %s: %w", path, err)
	}

	body, err := j.deps.Fetcher.Text(ctx, cfg.Calendar.ListingURL)
	if err != nil {
		return err
	}
	website, err := parseListingTimes(body)
	if err != nil {
		return err
	}

	todayLabel := now.In(j.deps.Venue).Format("January 2")
	todayWebsite := make([]websiteEvent, 0)
	for _, w := range website {
		if w.dateLabel == todayLabel {
			todayWebsite = append(todayWebsite, w)
		}
	}
	logger.Info("validation inputs",
		zap.Int("website_events", len(website)),
		zap.Int("website_today", len(todayWebsite)),
		zap.Int("snapshot_today", len(snap.EventsToday)),
	)

	var problems []string
	if len(todayWebsite) != len(snap.EventsToday) {
		problems = append(problems, fmt.Sprintf("event count mismatch: website %d, snapshot %d",
			len(todayWebsite), len(snap.EventsToday)))
	}

	for _, ev := range snap.EventsToday {
		w, ok := matchByTitle(todayWebsite, ev.Title)
		if !ok {
			problems = append(problems, fmt.Sprintf("%q: no matching event on website", ev.Title))
			continue
		}
		startMin, sErr := snapshotMinutes(ev.StartISO, j.deps.Venue)
		endMin, eErr := snapshotMinutes(ev.EndISO, j.deps.Venue)
		if sErr != nil || eErr != nil {
			problems = append(problems, fmt.Sprintf("%q: snapshot has unparseable times", ev.Title))
			continue
		}
		// One minute of tolerance absorbs rounding on either side.
		if abs(startMin-w.startMin) > 1 || abs(endMin-w.endMin) > 1 {
			problems = append(problems, fmt.Sprintf("%q: time mismatch (snapshot %d/%d min, website %d/%d min)",
				ev.Title, startMin, endMin, w.startMin, w.endMin))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("validate: %s", strings.Join(problems, "; "))
	}
	logger.Info("validation passed")
	return nil
}

// parseListingTimes reads tribe-events calendar markup: each <article> block
// carries "<Month> <day> @ <h:mm pm>" in its date-start span, the end time
// in its time span, and the title on the heading link's title attribute.
func parseListingTimes(html string) ([]websiteEvent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("validate: parse listing page: %w", err)
	}

	events := make([]websiteEvent, 0)
	doc.Find("article").Each(func(_ int, sel *goquery.Selection) {
		dateStart := cleanText(sel.Find("span.tribe-event-date-start").First().Text())
		endTime := cleanText(sel.Find("span.tribe-event-time").First().Text())
		title, _ := sel.Find(`h3.tribe-events-calendar-list__event-title a`).First().Attr("title")
		title = cleanText(title)
		if dateStart == "" || endTime == "" || title == "" {
			return
		}

		dateLabel, startStr, found := strings.Cut(dateStart, " @ ")
		if !found {
			return
		}
		startMin, sOK := clockMinutes(startStr)
		endMin, eOK := clockMinutes(endTime)
		if !sOK || !eOK {
			return
		}
		events = append(events, websiteEvent{
			title:     title,
			dateLabel: cleanText(dateLabel),
			startMin:  startMin,
			endMin:    endMin,
		})
	})
	return events, nil
}

// clockMinutes converts "2:30 pm" to minutes since midnight.
func clockMinutes(s string) (int, bool) {
	t, err := time.Parse("3:04 pm", strings.ToLower(cleanText(s)))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func snapshotMinutes(iso *string, loc *time.Location) (int, error) {
	if iso == nil {
		return 0, fmt.Errorf("missing instant")
	}
	t, err := time.Parse(time.RFC3339, *iso)
	if err != nil {
		return 0, err
	}
	local := t.In(loc)
	return local.Hour()*60 + local.Minute(), nil
}

// matchByTitle pairs a snapshot title with a website event; titles differ in
// decoration between the feed and the page, so containment either way counts.
func matchByTitle(events []websiteEvent, title string) (websiteEvent, bool) {
	lower := strings.ToLower(title)
	for _, w := range events {
		wl := strings.ToLower(w.title)
		if strings.Contains(wl, lower) || strings.Contains(lower, wl) {
			return w, true
		}
	}
	return websiteEvent{}, false
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
