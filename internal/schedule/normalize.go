// Package schedule answers "is there an event today, and if not, what's
// next?" over extractor output. It is the one shared algorithm every source
// job applies after extraction.
package schedule

import (
	"sort"
	"time"

	"gameday/internal/dates"
	"gameday/internal/model"
)

// Result holds the normalized schedule for one venue at one reference
// instant.
type Result struct {
	// EventsToday are the events whose local calendar date equals today's,
	// in chronological order; ties keep extraction order. Events without a
	// known start are excluded — an unknown date cannot be "today".
	EventsToday []model.RawEvent

	// Next is the event with the earliest start at or after now, unknown
	// starts ordering after every known one. Nil when nothing is upcoming.
	Next *model.NextEvent
}

// Normalize buckets events against now under the venue's civil timezone.
// Called twice with identical input it yields identical output; the input
// slice is not mutated.
func Normalize(events []model.RawEvent, now time.Time, loc *time.Location) Result {
	var res Result

	res.EventsToday = make([]model.RawEvent, 0)
	for _, e := range events {
		if e.HasStart() && dates.SameDay(e.Start, now, loc) {
			res.EventsToday = append(res.EventsToday, e)
		}
	}
	sort.SliceStable(res.EventsToday, func(i, j int) bool {
		return res.EventsToday[i].Start.Before(res.EventsToday[j].Start)
	})

	sorted := make([]model.RawEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return startsBefore(sorted[i], sorted[j])
	})

	for _, e := range sorted {
		if !e.HasStart() || !e.Start.Before(now) {
			next := model.NextEvent{RawEvent: e}
			if e.HasStart() {
				next.IsToday = dates.SameDay(e.Start, now, loc)
			}
			res.Next = &next
			break
		}
	}
	return res
}

// startsBefore orders by start instant, unknown starts after every known
// instant. Equal starts report false both ways so the stable sort keeps
// extraction order.
func startsBefore(a, b model.RawEvent) bool {
	switch {
	case !a.HasStart():
		return false
	case !b.HasStart():
		return true
	default:
		return a.Start.Before(b.Start)
	}
}
