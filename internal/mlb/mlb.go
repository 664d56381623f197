// Package mlb queries the MLB Stats API schedule endpoint for a team's next
// scheduled game.
package mlb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"gameday/internal/dates"
	"gameday/internal/fetch"
	"gameday/internal/model"
)

// Client reads a team's schedule from the stats API.
type Client struct {
	fetcher *fetch.Client
	baseURL string
	teamID  int
}

// NewClient creates a schedule client for one team.
func NewClient(fetcher *fetch.Client, baseURL string, teamID int) *Client {
	return &Client{fetcher: fetcher, baseURL: baseURL, teamID: teamID}
}

// Schedule endpoint response, trimmed to the fields the dashboard needs.
type scheduleResponse struct {
	Dates []struct {
		Games []scheduleGame `json:"games"`
	} `json:"dates"`
}

type scheduleGame struct {
	GameDate time.Time `json:"gameDate"`
	Teams    struct {
		Home scheduleSide `json:"home"`
		Away scheduleSide `json:"away"`
	} `json:"teams"`
	Venue struct {
		Name string `json:"name"`
	} `json:"venue"`
}

type scheduleSide struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

// NextGame returns the earliest scheduled game with a start between today
// and searchDays days out, both bounds taken as local calendar dates in loc
// (the API's date parameters are calendar days, and the venue's day boundary
// is what matters). A nil game means the window is empty.
func (c *Client) NextGame(ctx context.Context, now time.Time, searchDays int, loc *time.Location) (*model.Game, error) {
	q := url.Values{}
	q.Set("sportId", "1")
	q.Set("teamId", strconv.Itoa(c.teamID))
	q.Set("startDate", dates.DayKey(now, loc))
	q.Set("endDate", dates.DayKey(now.AddDate(0, 0, searchDays), loc))
	endpoint := c.baseURL + "/api/v1/schedule?" + q.Encode()

	body, err := c.fetcher.Text(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp scheduleResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("mlb: decode schedule: %w", err)
	}

	games := make([]scheduleGame, 0)
	for _, d := range resp.Dates {
		games = append(games, d.Games...)
	}
	if len(games) == 0 {
		return nil, nil
	}
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].GameDate.Before(games[j].GameDate)
	})

	g := games[0]
	isHome := g.Teams.Home.Team.ID == c.teamID
	opponent := g.Teams.Away.Team.Name
	if !isHome {
		opponent = g.Teams.Home.Team.Name
	}
	if opponent == "" {
		opponent = "Opponent"
	}

	return &model.Game{
		Start:    g.GameDate,
		IsHome:   isHome,
		Opponent: opponent,
		Venue:    g.Venue.Name,
	}, nil
}
