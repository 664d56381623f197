package mlb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gameday/internal/fetch"
)

const scheduleFixture = `{
  "dates": [
    {
      "games": [
        {
          "gameDate": "2025-06-03T23:05:00Z",
          "teams": {
            "home": {"team": {"id": 120, "name": "Washington Nationals"}},
            "away": {"team": {"id": 121, "name": "New York Mets"}}
          },
          "venue": {"name": "Nationals Park"}
        }
      ]
    },
    {
      "games": [
        {
          "gameDate": "2025-06-01T17:35:00Z",
          "teams": {
            "home": {"team": {"id": 143, "name": "Philadelphia Phillies"}},
            "away": {"team": {"id": 120, "name": "Washington Nationals"}}
          },
          "venue": {"name": "Citizens Bank Park"}
        }
      ]
    }
  ]
}`

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestNextGamePicksEarliestAcrossDates(t *testing.T) {
	loc := eastern(t)
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/schedule", r.URL.Path)
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, scheduleFixture)
	}))
	defer srv.Close()

	client := NewClient(fetch.NewClient(t.TempDir(), "", nil), srv.URL, 120)
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)
	game, err := client.NextGame(context.Background(), now, 60, loc)
	require.NoError(t, err)
	require.NotNil(t, game)

	// The earliest game wins even though the API listed it second, and it
	// is an away game.
	require.True(t, game.Start.Equal(time.Date(2025, 6, 1, 17, 35, 0, 0, time.UTC)))
	require.False(t, game.IsHome)
	require.Equal(t, "Philadelphia Phillies", game.Opponent)
	require.Equal(t, "Citizens Bank Park", game.Venue)

	require.Contains(t, gotQuery, "sportId=1")
	require.Contains(t, gotQuery, "teamId=120")
	// Date bounds are local calendar days in the venue timezone.
	require.Contains(t, gotQuery, "startDate=2025-06-01")
	require.Contains(t, gotQuery, "endDate=2025-07-31")
}

func TestNextGameHome(t *testing.T) {
	loc := eastern(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"dates":[{"games":[{
			"gameDate": "2025-06-03T23:05:00Z",
			"teams": {
				"home": {"team": {"id": 120, "name": "Washington Nationals"}},
				"away": {"team": {"id": 121, "name": "New York Mets"}}
			},
			"venue": {"name": "Nationals Park"}
		}]}]}`)
	}))
	defer srv.Close()

	client := NewClient(fetch.NewClient(t.TempDir(), "", nil), srv.URL, 120)
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)
	game, err := client.NextGame(context.Background(), now, 60, loc)
	require.NoError(t, err)
	require.True(t, game.IsHome)
	require.Equal(t, "New York Mets", game.Opponent)
}

func TestNextGameEmptyWindow(t *testing.T) {
	loc := eastern(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"dates":[]}`)
	}))
	defer srv.Close()

	client := NewClient(fetch.NewClient(t.TempDir(), "", nil), srv.URL, 120)
	game, err := client.NextGame(context.Background(), time.Now(), 60, loc)
	require.NoError(t, err)
	require.Nil(t, game)
}

func TestNextGameTransportFailureIsFatal(t *testing.T) {
	loc := eastern(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(fetch.NewClient(t.TempDir(), "", nil), srv.URL, 120)
	_, err := client.NextGame(context.Background(), time.Now(), 60, loc)
	require.Error(t, err)

	var statusErr *fetch.StatusError
	require.ErrorAs(t, err, &statusErr)
}

func TestNextGameBadJSON(t *testing.T) {
	loc := eastern(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<!doctype html>`)
	}))
	defer srv.Close()

	client := NewClient(fetch.NewClient(t.TempDir(), "", nil), srv.URL, 120)
	_, err := client.NextGame(context.Background(), time.Now(), 60, loc)
	require.Error(t, err)
}
