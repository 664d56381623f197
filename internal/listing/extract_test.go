package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func opts(t *testing.T) Options {
	return Options{Venue: eastern(t), BaseOrigin: "https://www.mlb.com"}
}

func TestExtractTitleTimeAndLink(t *testing.T) {
	html := `
		<div class="event-card">
			<h3>Concert Night</h3>
			<span>Saturday, October 25, 2025</span>
			<a href="/events/123"><span>More Information</span></a>
		</div>`

	events := Extract(html, opts(t), nil)

	require.Len(t, events, 1)
	require.Equal(t, "Concert Night", events[0].Title)
	// No listed time: noon local keeps the event on the right day.
	require.True(t, events[0].Start.Equal(time.Date(2025, 10, 25, 12, 0, 0, 0, eastern(t))))
	require.Equal(t, "https://www.mlb.com/events/123", events[0].DetailURL)
}

func TestExtractUsesListedClockTime(t *testing.T) {
	html := `
		<div>
			<h3>Evening Show</h3>
			<span>Friday, June 6, 2025</span>
			<span>7:30 PM</span>
		</div>`

	events := Extract(html, opts(t), nil)

	require.Len(t, events, 1)
	require.True(t, events[0].Start.Equal(time.Date(2025, 6, 6, 19, 30, 0, 0, eastern(t))))
}

func TestExtractSkipsCallToActionTitles(t *testing.T) {
	html := `
		<div>
			<h3>Winter Market</h3>
			<a href="/tix">Buy Tickets</a>
			<span>Learn More</span>
			<span>Saturday, December 13, 2025</span>
		</div>`

	events := Extract(html, opts(t), nil)

	require.Len(t, events, 1)
	require.Equal(t, "Winter Market", events[0].Title)
}

func TestExtractSkipsWeekdayAndMonthFragments(t *testing.T) {
	html := `
		<div>
			<h2>October</h2>
			<span>Saturday deals all month</span>
			<span>Saturday, October 25, 2025</span>
			<p>Fireworks Finale</p>
		</div>`

	events := Extract(html, opts(t), nil)

	require.Len(t, events, 1)
	// Nothing qualifies before the date, so the forward fallback applies.
	require.Equal(t, "Fireworks Finale", events[0].Title)
}

func TestExtractTitleDefaultsToEvent(t *testing.T) {
	html := `<span>Saturday, October 25, 2025</span>`

	events := Extract(html, opts(t), nil)

	require.Len(t, events, 1)
	require.Equal(t, "Event", events[0].Title)
}

func TestExtractDeduplicatesByDayAndTitle(t *testing.T) {
	html := `
		<div>
			<h3>Concert Night</h3>
			<span>Saturday, October 25, 2025</span>
			<a href="/events/123">More Information</a>
		</div>
		<div>
			<h3>Concert Night</h3>
			<span>Saturday, October 25, 2025</span>
			<a href="/events/456">More Information</a>
		</div>`

	events := Extract(html, opts(t), nil)

	require.Len(t, events, 1)
	// First occurrence wins, its link included.
	require.Equal(t, "https://www.mlb.com/events/123", events[0].DetailURL)
}

func TestExtractKeepsDistinctEvents(t *testing.T) {
	html := `
		<div>
			<h3>Concert Night</h3>
			<span>Saturday, October 25, 2025</span>
		</div>
		<div>
			<h3>Market Day</h3>
			<span>Sunday, October 26, 2025</span>
		</div>`

	events := Extract(html, opts(t), nil)

	require.Len(t, events, 2)
	require.Equal(t, "Concert Night", events[0].Title)
	require.Equal(t, "Market Day", events[1].Title)
}

func TestExtractEmptyPage(t *testing.T) {
	events := Extract("<html><body>nothing here</body></html>", opts(t), nil)
	require.NotNil(t, events)
	require.Empty(t, events)
}

func TestExtractNestedAnchorMarkup(t *testing.T) {
	html := `
		<div>
			<h3>Food Festival</h3>
			<span>Sunday, July 13, 2025</span>
			<a href="//www.mlb.com/events/food"><i class="icon"></i><span>More</span> <span>Information</span></a>
		</div>`

	events := Extract(html, opts(t), nil)

	require.Len(t, events, 1)
	require.Equal(t, "https://www.mlb.com/events/food", events[0].DetailURL)
}

func TestResolveURLForms(t *testing.T) {
	base := "https://www.mlb.com"
	for _, tc := range []struct {
		href string
		want string
	}{
		{"https://elsewhere.example/e/1", "https://elsewhere.example/e/1"},
		{"http://elsewhere.example/e/1", "http://elsewhere.example/e/1"},
		{"//www.mlb.com/events/9", "https://www.mlb.com/events/9"},
		{"/events/9", "https://www.mlb.com/events/9"},
		{"events/9", "https://www.mlb.com/events/9"},
		{"./events/9", "https://www.mlb.com/events/9"},
		{"", ""},
	} {
		require.Equal(t, tc.want, resolveURL(base, tc.href), "href %q", tc.href)
	}
}
