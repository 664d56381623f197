// Package snapshot defines the persisted JSON artifacts the dashboard reads
// and writes them atomically. Shapes are load-bearing: the rendering layer
// pattern-matches on these exact field names.
package snapshot

import (
	"time"

	"gameday/internal/model"
	"gameday/internal/schedule"
)

// Event is one RawEvent as persisted. StartISO is null when the source had
// no recoverable start; the dashboard treats null as "no event".
type Event struct {
	Title    string  `json:"title"`
	StartISO *string `json:"startISO"`
	EndISO   *string `json:"endISO,omitempty"`
	URL      string  `json:"url,omitempty"`
}

// NextEvent augments Event with the derived same-local-day flag.
type NextEvent struct {
	Event
	IsToday bool `json:"isToday"`
}

// Venue is the snapshot shape shared by the iCalendar-sourced and the
// HTML-sourced jobs.
type Venue struct {
	LastUpdated string     `json:"lastUpdated"`
	EventsToday []Event    `json:"eventsToday"`
	NextEvent   *NextEvent `json:"nextEvent"`
}

// NextGame is the ballpark's single authoritative next game.
type NextGame struct {
	IsToday  bool   `json:"isToday"`
	IsHome   bool   `json:"isHome"`
	Opponent string `json:"opponent"`
	Venue    string `json:"venue"`
	DateISO  string `json:"dateISO"`
}

// Ballpark is the league-sourced snapshot shape.
type Ballpark struct {
	LastUpdated string    `json:"lastUpdated"`
	NextEvent   *NextGame `json:"nextEvent"`
}

// NewVenue builds a venue snapshot from a normalized schedule. EventsToday
// is always an array, never null, so the dashboard can index it blindly.
func NewVenue(res schedule.Result, generatedAt time.Time) Venue {
	out := Venue{
		LastUpdated: isoString(generatedAt),
		EventsToday: make([]Event, 0, len(res.EventsToday)),
	}
	for _, e := range res.EventsToday {
		out.EventsToday = append(out.EventsToday, newEvent(e))
	}
	if res.Next != nil {
		out.NextEvent = &NextEvent{
			Event:   newEvent(res.Next.RawEvent),
			IsToday: res.Next.IsToday,
		}
	}
	return out
}

// NewBallpark builds the league snapshot. game may be nil (nothing in the
// search window).
func NewBallpark(game *model.Game, isToday bool, homeVenue string, generatedAt time.Time) Ballpark {
	out := Ballpark{LastUpdated: isoString(generatedAt)}
	if game == nil {
		return out
	}
	venue := game.Venue
	if venue == "" && game.IsHome {
		venue = homeVenue
	}
	out.NextEvent = &NextGame{
		IsToday:  isToday,
		IsHome:   game.IsHome,
		Opponent: game.Opponent,
		Venue:    venue,
		DateISO:  isoString(game.Start),
	}
	return out
}

func newEvent(e model.RawEvent) Event {
	out := Event{Title: e.Title}
	if e.HasStart() {
		out.StartISO = isoPtr(e.Start)
	}
	if !e.End.IsZero() {
		out.EndISO = isoPtr(e.End)
	}
	out.URL = e.DetailURL
	return out
}

func isoString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func isoPtr(t time.Time) *string {
	s := isoString(t)
	return &s
}
