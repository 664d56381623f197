// Package listing extracts events from a venue's HTML listing page.
//
// The page is marketing markup with no stable structure, so this is not a
// parser with a grammar: every full calendar date ("Saturday, October 25,
// 2025") anchors one candidate event, and independent best-effort passes
// around each anchor recover a title, a clock time and a detail link. A
// markup change on the site should only ever break one pass.
package listing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"gameday/internal/dates"
	"gameday/internal/model"
)

// Options controls extraction for a single listing page.
type Options struct {
	// Venue is the civil timezone; listed wall-clock times convert here.
	Venue *time.Location

	// BaseOrigin resolves relative detail links, e.g. "https://www.mlb.com".
	BaseOrigin string
}

// Window sizes, in bytes of raw markup around a date anchor. Matched to how
// far the site's event cards spread their fields from the date line.
const (
	titleBackWindow = 1200
	titleFwdWindow  = 800
	timeBackWindow  = 200
	timeFwdWindow   = 1200
	linkWindow      = 8000
)

var dateRe = regexp.MustCompile(`(Sunday|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday)\s*,\s*([A-Za-z]+)\s+(\d{1,2})\s*,\s*(\d{4})`)

var monthNumbers = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// Extract scans the page for date anchors and assembles one RawEvent per
// anchor, deduplicated by (local day, title) with the first occurrence
// winning. It never fails: an empty or hostile page yields an empty slice.
func Extract(html string, opts Options, logger *zap.Logger) []model.RawEvent {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Venue == nil {
		opts.Venue = time.UTC
	}

	events := make([]model.RawEvent, 0)
	for _, m := range dateRe.FindAllStringSubmatchIndex(html, -1) {
		anchorStart := m[0]
		monthName := html[m[4]:m[5]]
		dayStr := html[m[6]:m[7]]
		yearStr := html[m[8]:m[9]]

		month, ok := monthNumbers[strings.ToLower(monthName)]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(dayStr)
		year, _ := strconv.Atoi(yearStr)

		title := titleNear(html, anchorStart)
		hour, minute := timeNear(html, anchorStart)
		url := detailLinkNear(html, anchorStart, opts.BaseOrigin)

		events = append(events, model.RawEvent{
			Title:     title,
			Start:     time.Date(year, month, day, hour, minute, 0, 0, opts.Venue),
			DetailURL: url,
		})
	}

	deduped := dedupe(events, opts.Venue)
	logger.Info("listing extract completed",
		zap.Int("anchors", len(events)),
		zap.Int("event_count", len(deduped)),
	)
	return deduped
}

var clockRe = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)`)

// timeNear looks for a clock-time token around the anchor. When the listing
// omits the time (it usually does), local noon keeps the event on the right
// day without implying a specific wrong time.
func timeNear(html string, anchor int) (hour, minute int) {
	lo := max(0, anchor-timeBackWindow)
	hi := min(len(html), anchor+timeFwdWindow)
	m := clockRe.FindStringSubmatch(html[lo:hi])
	if m == nil {
		return 12, 0
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	switch strings.ToUpper(m[3]) {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return 12, 0
	}
	return hour, minute
}

// dedupe collapses repeated (local day, title) pairs, first wins. Listing
// pages repeat the same card in carousels and month sections.
func dedupe(events []model.RawEvent, loc *time.Location) []model.RawEvent {
	seen := make(map[string]struct{}, len(events))
	out := make([]model.RawEvent, 0, len(events))
	for _, e := range events {
		day := "null"
		if e.HasStart() {
			day = dates.DayKey(e.Start, loc)
		}
		key := day + "|" + e.Title
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
