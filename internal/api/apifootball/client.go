// Package apifootball reads fixtures and per-fixture odds from api-football v3.
package apifootball

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/omarshaarawi/hapdaily/internal/api/rest"
	"github.com/omarshaarawi/hapdaily/internal/batch"
	"github.com/omarshaarawi/hapdaily/internal/models"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://v3.football.api-sports.io"
	SourceName     = "api-football"
	apiHost        = "v3.football.api-sports.io"
	dateLayout     = "2006-01-02"
	matchWinner    = "Match Winner"

	// DefaultBookmaker is Bet365.
	DefaultBookmaker = 8
	// LeagueOne is the English League One competition, absent from football-data.org.
	LeagueOne = 41
)

var competitionCodes = map[int]string{
	39:  "PL",
	40:  "ELC",
	41:  "EL1",
	135: "SA",
	78:  "BL1",
	140: "PD",
	61:  "FL1",
	88:  "DED",
	94:  "PPL",
	2:   "CL",
}

// CompetitionCode maps an api-football league ID to a football-data.org style code.
func CompetitionCode(leagueID int) string {
	if code, ok := competitionCodes[leagueID]; ok {
		return code
	}
	return "OTH"
}

type Client struct {
	rest      *rest.Client
	season    int
	bookmaker int
	batch     batch.Options
	now       func() time.Time
}

func NewClient(baseURL, apiKey string, season int, opts ...rest.Option) *Client {
	opts = append([]rest.Option{
		rest.WithHeader("x-rapidapi-key", apiKey),
		rest.WithHeader("x-rapidapi-host", apiHost),
	}, opts...)
	return &Client{
		rest:      rest.NewClient(SourceName, baseURL, opts...),
		season:    season,
		bookmaker: DefaultBookmaker,
		batch:     batch.Options{Size: 10, Delay: time.Second},
		now:       time.Now,
	}
}

type fixtureResponse struct {
	Response []struct {
		Fixture struct {
			ID     int    `json:"id"`
			Date   string `json:"date"`
			Status struct {
				Short string `json:"short"`
			} `json:"status"`
		} `json:"fixture"`
		League struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"league"`
		Teams struct {
			Home struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"home"`
			Away struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"away"`
		} `json:"teams"`
	} `json:"response"`
	Errors any `json:"errors"`
}

type oddsResponse struct {
	Response []struct {
		Bookmakers []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
			Bets []struct {
				Name   string `json:"name"`
				Values []struct {
					Value string `json:"value"`
					Odd   string `json:"odd"`
				} `json:"values"`
			} `json:"bets"`
		} `json:"bookmakers"`
	} `json:"response"`
}

// LeagueFixtures returns today's pre-match fixtures for one league. Team IDs from this
// source do not identify teams in the form-history source, so they are left at zero.
func (c *Client) LeagueFixtures(ctx context.Context, leagueID int) ([]models.Fixture, error) {
	params := map[string]string{
		"league": strconv.Itoa(leagueID),
		"date":   c.now().UTC().Format(dateLayout),
	}
	if c.season > 0 {
		params["season"] = strconv.Itoa(c.season)
	}

	var resp fixtureResponse
	if err := c.rest.Get(ctx, "/fixtures", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching fixtures for league %d: %w", leagueID, err)
	}

	var fixtures []models.Fixture
	for _, r := range resp.Response {
		kickoff, err := time.Parse(time.RFC3339, r.Fixture.Date)
		if err != nil {
			slog.Warn("Skipping malformed fixture", "source", SourceName, "id", r.Fixture.ID, "error", err)
			continue
		}
		f := models.Fixture{
			HomeTeam:    models.TeamRef{Name: r.Teams.Home.Name},
			AwayTeam:    models.TeamRef{Name: r.Teams.Away.Name},
			Competition: models.Competition{Name: r.League.Name, Code: CompetitionCode(r.League.ID)},
			KickoffTime: kickoff.UTC(),
			Status:      models.ParseFixtureStatus(r.Fixture.Status.Short),
			Source:      SourceName,
		}
		if r.Fixture.ID != 0 {
			f.ExternalID = strconv.Itoa(r.Fixture.ID)
		}
		if err := f.Validate(); err != nil {
			slog.Warn("Skipping malformed fixture", "source", SourceName, "id", r.Fixture.ID, "error", err)
			continue
		}
		if !f.Eligible() {
			continue
		}
		fixtures = append(fixtures, f)
	}
	slog.Info("Fetched fixtures", "source", SourceName, "league", leagueID, "total", len(resp.Response), "eligible", len(fixtures))
	return fixtures, nil
}

// FixtureOdds returns the fixture's Match Winner quotes as an odds event named after the
// fixture's teams.
func (c *Client) FixtureOdds(ctx context.Context, f models.Fixture) (models.OddsEvent, error) {
	params := map[string]string{
		"fixture":   f.ExternalID,
		"bookmaker": strconv.Itoa(c.bookmaker),
	}

	var resp oddsResponse
	if err := c.rest.Get(ctx, "/odds", params, &resp); err != nil {
		return models.OddsEvent{}, fmt.Errorf("fetching odds for fixture %s: %w", f.ExternalID, err)
	}

	event := models.OddsEvent{
		EventID:      f.ExternalID,
		HomeTeam:     f.HomeTeam.Name,
		AwayTeam:     f.AwayTeam.Name,
		CommenceTime: f.KickoffTime,
	}
	for _, r := range resp.Response {
		for _, b := range r.Bookmakers {
			for _, bet := range b.Bets {
				if bet.Name != matchWinner || len(bet.Values) != 3 {
					continue
				}
				q := models.OddsQuote{Bookmaker: b.Name}
				for _, v := range bet.Values {
					price, err := decimal.NewFromString(v.Odd)
					if err != nil {
						continue
					}
					switch v.Value {
					case "Home":
						q.HomePrice = price.InexactFloat64()
					case "Draw":
						q.DrawPrice = price.InexactFloat64()
					case "Away":
						q.AwayPrice = price.InexactFloat64()
					}
				}
				if q.HomePrice == 0 || q.DrawPrice == 0 || q.AwayPrice == 0 {
					continue
				}
				event.Quotes = append(event.Quotes, q)
			}
		}
	}
	return event, nil
}

// OddsForFixtures fetches odds for each fixture in batches, keyed by external ID. Fixtures
// whose odds could not be fetched are absent from the result.
func (c *Client) OddsForFixtures(ctx context.Context, fixtures []models.Fixture) map[string]models.OddsEvent {
	results := batch.Run(ctx, fixtures, c.batch, c.FixtureOdds)

	events := make(map[string]models.OddsEvent, len(fixtures))
	for i, r := range results {
		if r.Err != nil {
			slog.Error("Failed to fetch fixture odds", "fixture", fixtures[i].ExternalID, "error", r.Err)
			continue
		}
		events[fixtures[i].ExternalID] = r.Value
	}
	return events
}
