// Package ics extracts schedule events from an iCalendar feed.
//
// Parsing is structured (github.com/arran4/golang-ical), not line scanning.
// One supported feed labels venue wall-clock times as UTC; Options.
// MislabeledUTC isolates that correction as a per-source value substitution
// so general date parsing stays honest.
package ics

import (
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"gameday/internal/model"
)

const (
	compactDateTime  = "20060102T150405"
	compactDateTimeZ = "20060102T150405Z"
	compactDate      = "20060102"
)

// Options controls extraction for a single feed.
type Options struct {
	// Venue is the civil timezone. Date-only values, TZID-less local
	// date-times and corrected Z values are all interpreted here.
	Venue *time.Location

	// MislabeledUTC reinterprets Z-suffixed date-times as venue wall clock.
	// This is a property of one known-defective feed, keyed in config, not
	// an iCalendar rule.
	MislabeledUTC bool

	// RangeStart / RangeEnd bound recurrence expansion.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrences caps expansion per recurring event. Zero means
	// defaultMaxOccurrences.
	MaxOccurrences int
}

// parsedEvent is one VEVENT before recurrence expansion.
type parsedEvent struct {
	event    model.RawEvent
	rawRRule string
	exDates  []time.Time
}

// Extract parses an ICS payload into RawEvents, expanding recurrences within
// the configured range.
//
// Failure policy: malformed fields are skipped, events without a parseable
// DTSTART are dropped, and a wholly malformed document yields an empty slice
// with a logged diagnostic. Extract never fails the caller.
func Extract(body string, opts Options, logger *zap.Logger) []model.RawEvent {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Venue == nil {
		opts.Venue = time.UTC
	}

	cal, err := ical.ParseCalendar(strings.NewReader(body))
	if err != nil {
		logger.Error("ics parse failed", zap.Error(err))
		return []model.RawEvent{}
	}

	parsed := make([]parsedEvent, 0)
	dropped := 0
	for _, ve := range cal.Events() {
		pe, ok := parseVEvent(ve, opts, logger)
		if !ok {
			dropped++
			continue
		}
		parsed = append(parsed, pe)
	}

	events := expand(parsed, opts, logger)
	logger.Info("ics extract completed",
		zap.Int("event_count", len(events)),
		zap.Int("dropped", dropped),
	)
	return events
}

// parseVEvent captures title, start, end and detail URL from one VEVENT.
// Field capture is first-occurrence-wins: GetProperty returns the first
// property of a kind, so a repeated SUMMARY or DTSTART never overrides the
// one already seen.
func parseVEvent(ve *ical.VEvent, opts Options, logger *zap.Logger) (parsedEvent, bool) {
	var pe parsedEvent
	pe.event.Title = "Event"

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil && strings.TrimSpace(p.Value) != "" {
		pe.event.Title = strings.TrimSpace(p.Value)
	}

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return pe, false
	}
	start, err := parseDateTime(startProp.Value, startProp.ICalParameters, opts)
	if err != nil {
		logger.Debug("ics dtstart unparseable, dropping event",
			zap.String("summary", pe.event.Title),
			zap.String("value", startProp.Value),
			zap.Error(err),
		)
		return pe, false
	}
	pe.event.Start = start

	// End is optional; a bad value only loses the field.
	if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
		if end, err := parseDateTime(endProp.Value, endProp.ICalParameters, opts); err == nil {
			pe.event.End = end
		}
	}

	// Raw property name; the library's constant set varies across versions.
	if p := ve.GetProperty("URL"); p != nil {
		pe.event.DetailURL = strings.TrimSpace(p.Value)
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		pe.rawRRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseDateTime(part, p.ICalParameters, opts); err == nil {
				pe.exDates = append(pe.exDates, t)
			}
		}
	}

	return pe, true
}

// parseDateTime converts a compact YYYYMMDD[THHMMSS][Z] token into an
// absolute instant. A TZID parameter wins for local date-times; otherwise
// the venue timezone applies. Absent time-of-day means local midnight.
func parseDateTime(value string, params map[string][]string, opts Options) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, errors.New("empty date-time value")
	}

	loc := opts.Venue
	if params != nil {
		if tzs, ok := params["TZID"]; ok && len(tzs) > 0 {
			if l, err := time.LoadLocation(tzs[0]); err == nil {
				loc = l
			}
		}
	}

	switch {
	case strings.HasSuffix(v, "Z"):
		if opts.MislabeledUTC {
			// Known feed defect: the Z designator is wrong and the digits
			// are venue wall clock.
			return time.ParseInLocation(compactDateTime, strings.TrimSuffix(v, "Z"), opts.Venue)
		}
		return time.Parse(compactDateTimeZ, v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation(compactDateTime, v, loc)
	default:
		return time.ParseInLocation(compactDate, v, loc)
	}
}
