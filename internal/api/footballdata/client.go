// Package footballdata reads fixtures, standings and team history from football-data.org.
package footballdata

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/omarshaarawi/hapdaily/internal/api/rest"
	"github.com/omarshaarawi/hapdaily/internal/models"
)

const (
	DefaultBaseURL = "https://api.football-data.org/v4"
	SourceName     = "football-data"
	dateLayout     = "2006-01-02"
	historyLimit   = 10
)

// DefaultCompetitions are the competition codes with reliable odds coverage.
var DefaultCompetitions = []string{"PL", "ELC", "PD", "BL1", "SA", "FL1", "DED", "PPL", "BSA", "CL", "EL"}

type Client struct {
	rest         *rest.Client
	competitions []string
	now          func() time.Time
}

func NewClient(baseURL, token string, competitions []string, opts ...rest.Option) *Client {
	if len(competitions) == 0 {
		competitions = DefaultCompetitions
	}
	opts = append([]rest.Option{rest.WithHeader("X-Auth-Token", token)}, opts...)
	return &Client{
		rest:         rest.NewClient(SourceName, baseURL, opts...),
		competitions: competitions,
		now:          time.Now,
	}
}

type team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type match struct {
	ID          int    `json:"id"`
	UTCDate     string `json:"utcDate"`
	Status      string `json:"status"`
	HomeTeam    team   `json:"homeTeam"`
	AwayTeam    team   `json:"awayTeam"`
	Competition struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"competition"`
	Score struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

type matchesResponse struct {
	Matches []match `json:"matches"`
}

type standingsResponse struct {
	Competition struct {
		Code string `json:"code"`
	} `json:"competition"`
	Standings []struct {
		Type  string `json:"type"`
		Table []struct {
			Position int  `json:"position"`
			Team     team `json:"team"`
		} `json:"table"`
	} `json:"standings"`
}

// Fixtures returns today's and tomorrow's pre-match fixtures in the configured competitions.
func (c *Client) Fixtures(ctx context.Context) ([]models.Fixture, error) {
	now := c.now().UTC()
	params := map[string]string{
		"dateFrom": now.Format(dateLayout),
		"dateTo":   now.AddDate(0, 0, 1).Format(dateLayout),
	}

	var resp matchesResponse
	if err := c.rest.Get(ctx, "/matches", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching fixtures: %w", err)
	}

	var fixtures []models.Fixture
	for _, m := range resp.Matches {
		if !slices.Contains(c.competitions, m.Competition.Code) {
			continue
		}
		f, err := m.fixture()
		if err != nil {
			slog.Warn("Skipping malformed fixture", "source", SourceName, "id", m.ID, "error", err)
			continue
		}
		if !f.Eligible() {
			continue
		}
		fixtures = append(fixtures, f)
	}
	slog.Info("Fetched fixtures", "source", SourceName, "total", len(resp.Matches), "eligible", len(fixtures))
	return fixtures, nil
}

func (m match) fixture() (models.Fixture, error) {
	kickoff, err := time.Parse(time.RFC3339, m.UTCDate)
	if err != nil {
		return models.Fixture{}, fmt.Errorf("parsing kickoff %q: %w", m.UTCDate, err)
	}
	f := models.Fixture{
		ExternalID:  strconv.Itoa(m.ID),
		HomeTeam:    models.TeamRef{ID: m.HomeTeam.ID, Name: m.HomeTeam.Name},
		AwayTeam:    models.TeamRef{ID: m.AwayTeam.ID, Name: m.AwayTeam.Name},
		Competition: models.Competition{Name: m.Competition.Name, Code: m.Competition.Code},
		KickoffTime: kickoff.UTC(),
		Status:      models.ParseFixtureStatus(m.Status),
		Source:      SourceName,
	}
	if m.ID == 0 {
		f.ExternalID = ""
	}
	return f, f.Validate()
}

// Standings returns the competition's total table. A competition without standings
// returns nil and no error.
func (c *Client) Standings(ctx context.Context, competitionCode string) (*models.Standings, error) {
	var resp standingsResponse
	err := c.rest.Get(ctx, "/competitions/"+competitionCode+"/standings", nil, &resp)
	if rest.IsNotFound(err) {
		slog.Info("Standings not available", "competition", competitionCode)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching standings for %s: %w", competitionCode, err)
	}
	if len(resp.Standings) == 0 {
		return nil, nil
	}

	table := &models.Standings{Competition: competitionCode}
	for _, row := range resp.Standings[0].Table {
		if row.Team.Name == "" {
			continue
		}
		table.Rows = append(table.Rows, models.StandingRow{Position: row.Position, TeamName: row.Team.Name})
	}
	return table, nil
}

// TeamMatches returns the team's most recent finished matches.
func (c *Client) TeamMatches(ctx context.Context, teamID int) ([]models.PlayedMatch, error) {
	params := map[string]string{
		"status": "FINISHED",
		"limit":  strconv.Itoa(historyLimit),
	}

	var resp matchesResponse
	if err := c.rest.Get(ctx, fmt.Sprintf("/teams/%d/matches", teamID), params, &resp); err != nil {
		return nil, fmt.Errorf("fetching matches for team %d: %w", teamID, err)
	}

	matches := make([]models.PlayedMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		played, err := time.Parse(time.RFC3339, m.UTCDate)
		if err != nil {
			slog.Warn("Skipping malformed match", "source", SourceName, "id", m.ID, "error", err)
			continue
		}
		matches = append(matches, models.PlayedMatch{
			HomeTeamID: m.HomeTeam.ID,
			AwayTeamID: m.AwayTeam.ID,
			HomeGoals:  m.Score.FullTime.Home,
			AwayGoals:  m.Score.FullTime.Away,
			UTCDate:    played,
		})
	}
	return matches, nil
}
