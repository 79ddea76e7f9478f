package oddsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/omarshaarawi/hapdaily/internal/api/rest"
)

const eplBody = `[
  {"id": "e1", "sport_key": "soccer_epl", "commence_time": "2026-10-14T19:00:00Z",
   "home_team": "Arsenal", "away_team": "Chelsea",
   "bookmakers": [
     {"key": "a", "title": "Bookie A", "markets": [{"key": "h2h", "outcomes": [
       {"name": "Arsenal", "price": 1.5}, {"name": "Chelsea", "price": 6.0}, {"name": "Draw", "price": 4.2}]}]},
     {"key": "b", "title": "Bookie B", "markets": [{"key": "h2h", "outcomes": [
       {"name": "Arsenal", "price": 1.55}, {"name": "Chelsea", "price": 5.5}]}]}
   ]},
  {"id": "e2", "sport_key": "soccer_epl", "commence_time": "2026-10-20T19:00:00Z",
   "home_team": "Everton", "away_team": "Fulham", "bookmakers": []},
  {"id": "", "sport_key": "soccer_epl", "commence_time": "2026-10-14T19:00:00Z",
   "home_team": "Brentford", "away_team": "Burnley", "bookmakers": []},
  {"id": "e4", "sport_key": "soccer_epl", "commence_time": "2026-10-15T11:30:00Z",
   "home_team": "Luton", "away_team": "Wolves", "bookmakers": []}
]`

func newTestClient(t *testing.T, provider string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{Provider: provider, BaseURL: srv.URL, APIKey: "key", Sports: []string{"soccer_epl", "soccer_spain_la_liga"}},
		rest.WithRetryBackoff(time.Millisecond))
	c.now = func() time.Time { return time.Date(2026, 10, 14, 6, 0, 0, 0, time.UTC) }
	c.batch.Delay = 0
	return c
}

func TestSportOdds(t *testing.T) {
	c := newTestClient(t, ProviderTheOddsAPI, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apiKey") != "key" || q.Get("markets") != "h2h" || q.Get("oddsFormat") != "decimal" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		if got := q["regions"]; len(got) != 1 || got[0] != "eu,uk" {
			t.Errorf("regions = %v, want [eu,uk]", got)
		}
		if !strings.Contains(r.URL.RawQuery, "regions=eu%2Cuk") {
			t.Errorf("raw query = %q, want regions=eu%%2Cuk", r.URL.RawQuery)
		}
		w.Write([]byte(eplBody))
	})

	got, err := c.SportOdds(context.Background(), "soccer_epl")
	if err != nil {
		t.Fatalf("SportOdds() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("SportOdds() returned %d events, want 2", len(got))
	}
	if got[0].EventID != "e1" || got[1].EventID != "e4" {
		t.Errorf("SportOdds() ids = %s, %s, want e1, e4", got[0].EventID, got[1].EventID)
	}
	if len(got[0].Quotes) != 1 {
		t.Fatalf("SportOdds() quotes = %d, want 1 complete quote", len(got[0].Quotes))
	}
	q := got[0].Quotes[0]
	if q.Bookmaker != "Bookie A" || q.HomePrice != 1.5 || q.DrawPrice != 4.2 || q.AwayPrice != 6.0 {
		t.Errorf("SportOdds() quote = %+v", q)
	}
}

func TestRapidAPIHeaders(t *testing.T) {
	for _, provider := range []string{ProviderRapidAPI, "RapidAPI", " RAPIDAPI "} {
		t.Run(provider, func(t *testing.T) {
			c := newTestClient(t, provider, func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("x-rapidapi-key") != "key" || r.Header.Get("x-rapidapi-host") != rapidAPIHost {
					t.Errorf("headers = %v", r.Header)
				}
				if r.URL.Query().Get("apiKey") != "" {
					t.Errorf("apiKey query sent to RapidAPI")
				}
				if got := r.URL.Query()["regions"]; len(got) != 1 || got[0] != "us,eu,uk" {
					t.Errorf("regions = %v, want [us,eu,uk]", got)
				}
				w.Write([]byte(`[]`))
			})

			if _, err := c.SportOdds(context.Background(), "soccer_epl"); err != nil {
				t.Errorf("SportOdds() error = %v", err)
			}
		})
	}
}

func TestAllOddsSkipsFailedSport(t *testing.T) {
	c := newTestClient(t, ProviderTheOddsAPI, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "la_liga") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(eplBody))
	})

	got, err := c.AllOdds(context.Background())
	if err != nil {
		t.Fatalf("AllOdds() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("AllOdds() returned %d events, want 2", len(got))
	}
}

func TestSportOddsUnavailable(t *testing.T) {
	c := newTestClient(t, ProviderTheOddsAPI, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := c.SportOdds(context.Background(), "soccer_epl"); !errors.Is(err, rest.ErrSourceUnavailable) {
		t.Errorf("SportOdds() error = %v, want ErrSourceUnavailable", err)
	}
}
