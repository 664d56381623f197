package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gameday/internal/model"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestNormalizeTodayAndNext(t *testing.T) {
	loc := eastern(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)

	past := model.RawEvent{Title: "Morning Run", Start: time.Date(2025, 6, 1, 9, 0, 0, 0, loc)}
	tonight := model.RawEvent{Title: "Concert", Start: time.Date(2025, 6, 1, 20, 0, 0, 0, loc)}
	later := model.RawEvent{Title: "Matinee", Start: time.Date(2025, 6, 3, 10, 0, 0, 0, loc)}

	res := Normalize([]model.RawEvent{later, tonight, past}, now, loc)

	require.Equal(t, []model.RawEvent{past, tonight}, res.EventsToday)
	require.NotNil(t, res.Next)
	require.Equal(t, tonight, res.Next.RawEvent)
	require.True(t, res.Next.IsToday)
}

func TestNormalizeOnlyFutureEvent(t *testing.T) {
	loc := eastern(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)
	ev := model.RawEvent{Title: "Friendly", Start: time.Date(2025, 6, 5, 19, 0, 0, 0, loc)}

	res := Normalize([]model.RawEvent{ev}, now, loc)

	require.Empty(t, res.EventsToday)
	require.NotNil(t, res.Next)
	require.Equal(t, ev, res.Next.RawEvent)
	require.False(t, res.Next.IsToday)
}

func TestNormalizeNothingUpcoming(t *testing.T) {
	loc := eastern(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)
	ev := model.RawEvent{Title: "Long Gone", Start: time.Date(2025, 5, 1, 19, 0, 0, 0, loc)}

	res := Normalize([]model.RawEvent{ev}, now, loc)

	require.Empty(t, res.EventsToday)
	require.Nil(t, res.Next)
}

func TestNullStartNeverToday(t *testing.T) {
	loc := eastern(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)
	unknown := model.RawEvent{Title: "Date TBA"}

	res := Normalize([]model.RawEvent{unknown}, now, loc)

	require.Empty(t, res.EventsToday)
	// Unknown starts sort last, but are still eligible as "next".
	require.NotNil(t, res.Next)
	require.Equal(t, unknown, res.Next.RawEvent)
	require.False(t, res.Next.IsToday)
}

func TestNullStartOrdersAfterKnownStarts(t *testing.T) {
	loc := eastern(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)
	unknown := model.RawEvent{Title: "Date TBA"}
	future := model.RawEvent{Title: "Game", Start: time.Date(2025, 6, 9, 19, 0, 0, 0, loc)}

	res := Normalize([]model.RawEvent{unknown, future}, now, loc)

	require.NotNil(t, res.Next)
	require.Equal(t, future, res.Next.RawEvent)
}

func TestIdenticalStartsKeepInputOrder(t *testing.T) {
	loc := eastern(t)
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)
	start := time.Date(2025, 6, 1, 19, 0, 0, 0, loc)
	first := model.RawEvent{Title: "First Listed", Start: start}
	second := model.RawEvent{Title: "Second Listed", Start: start}

	res := Normalize([]model.RawEvent{first, second}, now, loc)

	require.Equal(t, []model.RawEvent{first, second}, res.EventsToday)
	require.Equal(t, first, res.Next.RawEvent)
}

func TestNormalizeIdempotentAndNonMutating(t *testing.T) {
	loc := eastern(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)
	input := []model.RawEvent{
		{Title: "B", Start: time.Date(2025, 6, 2, 10, 0, 0, 0, loc)},
		{Title: "A", Start: time.Date(2025, 6, 1, 20, 0, 0, 0, loc)},
		{Title: "TBA"},
	}
	orig := make([]model.RawEvent, len(input))
	copy(orig, input)

	first := Normalize(input, now, loc)
	second := Normalize(input, now, loc)

	require.Equal(t, first, second)
	require.Equal(t, orig, input)
}

func TestNextConsistentWithEventsToday(t *testing.T) {
	loc := eastern(t)
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)
	a := model.RawEvent{Title: "Doubleheader 1", Start: time.Date(2025, 6, 1, 13, 0, 0, 0, loc)}
	b := model.RawEvent{Title: "Doubleheader 2", Start: time.Date(2025, 6, 1, 19, 0, 0, 0, loc)}

	res := Normalize([]model.RawEvent{a, b}, now, loc)

	require.Len(t, res.EventsToday, 2)
	require.Equal(t, res.EventsToday[0], res.Next.RawEvent)
	require.True(t, res.Next.IsToday)
}
