// Package oddsapi reads head-to-head soccer odds from The Odds API, directly or through RapidAPI.
package oddsapi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/omarshaarawi/hapdaily/internal/api/rest"
	"github.com/omarshaarawi/hapdaily/internal/batch"
	"github.com/omarshaarawi/hapdaily/internal/models"
)

const (
	ProviderTheOddsAPI = "theoddsapi"
	ProviderRapidAPI   = "rapidapi"

	TheOddsAPIBaseURL = "https://api.the-odds-api.com/v4"
	RapidAPIBaseURL   = "https://odds.p.rapidapi.com/v4"
	rapidAPIHost      = "odds.p.rapidapi.com"

	SourceName = "odds-api"
	drawName   = "Draw"
	marketH2H  = "h2h"
	dateLayout = "2006-01-02"
)

// DefaultSports are the soccer competitions odds are requested for.
var DefaultSports = []string{
	"soccer_epl",
	"soccer_spain_la_liga",
	"soccer_germany_bundesliga",
	"soccer_italy_serie_a",
	"soccer_france_ligue_one",
	"soccer_netherlands_eredivisie",
	"soccer_portugal_primeira_liga",
	"soccer_uefa_champs_league",
	"soccer_uefa_europa_league",
}

type Client struct {
	rest    *rest.Client
	regions string
	sports  []string
	batch   batch.Options
	now     func() time.Time
}

type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Sports   []string
}

func NewClient(cfg Config, opts ...rest.Option) *Client {
	c := &Client{
		sports: cfg.Sports,
		batch:  batch.Options{Size: 3, Delay: time.Second},
		now:    time.Now,
	}
	if len(c.sports) == 0 {
		c.sports = DefaultSports
	}

	baseURL := cfg.BaseURL
	switch NormalizeProvider(cfg.Provider) {
	case ProviderRapidAPI:
		if baseURL == "" {
			baseURL = RapidAPIBaseURL
		}
		c.regions = "us,eu,uk"
		opts = append([]rest.Option{
			rest.WithHeader("x-rapidapi-key", cfg.APIKey),
			rest.WithHeader("x-rapidapi-host", rapidAPIHost),
		}, opts...)
	default:
		if baseURL == "" {
			baseURL = TheOddsAPIBaseURL
		}
		c.regions = "eu,uk"
		opts = append([]rest.Option{rest.WithQueryParam("apiKey", cfg.APIKey)}, opts...)
	}
	c.rest = rest.NewClient(SourceName, baseURL, opts...)
	return c
}

// NormalizeProvider trims and lowercases a configured provider name so it compares equal
// to the Provider constants.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

type outcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type bookmaker struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Markets []struct {
		Key      string    `json:"key"`
		Outcomes []outcome `json:"outcomes"`
	} `json:"markets"`
}

type event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []bookmaker `json:"bookmakers"`
}

// SportOdds returns the sport's events starting today or tomorrow (UTC).
func (c *Client) SportOdds(ctx context.Context, sportKey string) ([]models.OddsEvent, error) {
	params := map[string]string{
		"regions":    c.regions,
		"markets":    marketH2H,
		"oddsFormat": "decimal",
		"dateFormat": "iso",
	}

	var resp []event
	if err := c.rest.Get(ctx, "/sports/"+sportKey+"/odds", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching odds for %s: %w", sportKey, err)
	}

	now := c.now().UTC()
	today := now.Format(dateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(dateLayout)

	var events []models.OddsEvent
	for _, e := range resp {
		oe, err := e.oddsEvent()
		if err != nil {
			slog.Warn("Skipping malformed odds event", "source", SourceName, "sport", sportKey, "id", e.ID, "error", err)
			continue
		}
		day := oe.CommenceTime.Format(dateLayout)
		if day != today && day != tomorrow {
			continue
		}
		events = append(events, oe)
	}
	slog.Debug("Fetched odds", "sport", sportKey, "total", len(resp), "kept", len(events))
	return events, nil
}

// AllOdds fetches every configured sport in batches. A failed sport is logged and
// contributes no events.
func (c *Client) AllOdds(ctx context.Context) ([]models.OddsEvent, error) {
	results := batch.Run(ctx, c.sports, c.batch, c.SportOdds)

	var events []models.OddsEvent
	failed := 0
	for i, r := range results {
		if r.Err != nil {
			failed++
			slog.Error("Failed to fetch odds", "sport", c.sports[i], "error", r.Err)
			continue
		}
		events = append(events, r.Value...)
	}
	if err := ctx.Err(); err != nil {
		return events, err
	}
	slog.Info("Fetched odds events", "source", SourceName, "events", len(events), "failed_sports", failed)
	return events, nil
}

func (e event) oddsEvent() (models.OddsEvent, error) {
	commence, err := time.Parse(time.RFC3339, e.CommenceTime)
	if err != nil {
		return models.OddsEvent{}, fmt.Errorf("parsing commence time %q: %w", e.CommenceTime, err)
	}
	oe := models.OddsEvent{
		EventID:      e.ID,
		HomeTeam:     e.HomeTeam,
		AwayTeam:     e.AwayTeam,
		CommenceTime: commence.UTC(),
	}
	if err := oe.Validate(); err != nil {
		return models.OddsEvent{}, err
	}
	for _, b := range e.Bookmakers {
		if q, ok := e.quote(b); ok {
			oe.Quotes = append(oe.Quotes, q)
		}
	}
	return oe, nil
}

// quote reads the bookmaker's h2h prices. Outcomes are matched on the event's own team
// names, so a bookmaker missing any of the three yields no quote.
func (e event) quote(b bookmaker) (models.OddsQuote, bool) {
	for _, m := range b.Markets {
		if m.Key != marketH2H {
			continue
		}
		q := models.OddsQuote{Bookmaker: b.Title}
		for _, o := range m.Outcomes {
			switch o.Name {
			case e.HomeTeam:
				q.HomePrice = o.Price
			case e.AwayTeam:
				q.AwayPrice = o.Price
			case drawName:
				q.DrawPrice = o.Price
			}
		}
		return q, q.HomePrice != 0 && q.DrawPrice != 0 && q.AwayPrice != 0
	}
	return models.OddsQuote{}, false
}
