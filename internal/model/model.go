package model

import "time"

// RawEvent is an extractor-produced candidate event, before today/next-event
// resolution. Every extractor (iCalendar feed, HTML listing) emits these.
type RawEvent struct {
	// Title is free text; extractors fall back to "Event" when the source
	// has no usable title.
	Title string

	// Start is the absolute start instant. A zero value means the source
	// contained no recoverable start; such events sort after everything
	// with a known start and can never be "today".
	Start time.Time

	// End is the absolute end instant, zero when the source has none.
	End time.Time

	// DetailURL is an absolute URL to more information, empty when absent.
	DetailURL string
}

// HasStart reports whether the event carries a known start instant.
func (e RawEvent) HasStart() bool {
	return !e.Start.IsZero()
}

// NextEvent is the single chronologically nearest upcoming event, augmented
// with the derived same-local-day flag.
type NextEvent struct {
	RawEvent
	IsToday bool
}

// Game is the single authoritative record the league schedule API yields for
// one scheduled game.
type Game struct {
	Start    time.Time
	IsHome   bool
	Opponent string
	Venue    string
}
