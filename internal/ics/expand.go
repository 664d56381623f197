package ics

import (
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"gameday/internal/model"
)

const defaultMaxOccurrences = 1000

// expand turns parsed VEVENTs into concrete RawEvents. Non-recurring events
// pass through unchanged; RRULE events are expanded into occurrences within
// [RangeStart, RangeEnd], honoring EXDATE, with the original duration
// preserved. Expansion is capped per event so a runaway rule cannot blow up
// a scrape run.
func expand(parsed []parsedEvent, opts Options, logger *zap.Logger) []model.RawEvent {
	out := make([]model.RawEvent, 0, len(parsed))
	maxOcc := opts.MaxOccurrences
	if maxOcc <= 0 {
		maxOcc = defaultMaxOccurrences
	}

	for _, pe := range parsed {
		if pe.rawRRule == "" {
			out = append(out, pe.event)
			continue
		}
		if opts.RangeEnd.IsZero() || opts.RangeEnd.Before(opts.RangeStart) {
			// No usable window; keep the base occurrence only.
			out = append(out, pe.event)
			continue
		}

		r, err := rrule.StrToRRule(pe.rawRRule)
		if err != nil {
			logger.Debug("ics rrule unparseable, keeping base occurrence",
				zap.String("summary", pe.event.Title),
				zap.String("rrule", pe.rawRRule),
				zap.Error(err),
			)
			out = append(out, pe.event)
			continue
		}
		r.DTStart(pe.event.Start)

		var set rrule.Set
		set.RRule(r)
		for _, ex := range pe.exDates {
			set.ExDate(ex.In(pe.event.Start.Location()))
		}

		rangeStart := opts.RangeStart.In(pe.event.Start.Location())
		rangeEnd := opts.RangeEnd.In(pe.event.Start.Location())
		occTimes := set.Between(rangeStart, rangeEnd, true)
		if len(occTimes) > maxOcc {
			occTimes = occTimes[:maxOcc]
			logger.Warn("ics recurrence truncated",
				zap.String("summary", pe.event.Title),
				zap.Int("cap", maxOcc),
			)
		}

		var dur time.Duration
		if !pe.event.End.IsZero() {
			dur = pe.event.End.Sub(pe.event.Start)
		}
		for _, start := range occTimes {
			occ := pe.event
			occ.Start = start
			if dur > 0 {
				occ.End = start.Add(dur)
			} else {
				occ.End = time.Time{}
			}
			out = append(out, occ)
		}
	}
	return out
}
