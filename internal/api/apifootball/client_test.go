package apifootball

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/omarshaarawi/hapdaily/internal/api/rest"
	"github.com/omarshaarawi/hapdaily/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "key", 2026, rest.WithRetryBackoff(time.Millisecond))
	c.now = func() time.Time { return time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC) }
	c.batch.Delay = 0
	return c
}

func TestLeagueFixtures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("league") != "41" || q.Get("date") != "2026-10-14" || q.Get("season") != "2026" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		if r.Header.Get("x-rapidapi-key") != "key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte(`{"response": [
			{"fixture": {"id": 101, "date": "2026-10-14T18:45:00+00:00", "status": {"short": "NS"}},
			 "league": {"id": 41, "name": "League One"},
			 "teams": {"home": {"id": 1, "name": "Barnsley"}, "away": {"id": 2, "name": "Reading"}}},
			{"fixture": {"id": 102, "date": "2026-10-14T12:00:00+00:00", "status": {"short": "FT"}},
			 "league": {"id": 41, "name": "League One"},
			 "teams": {"home": {"id": 3, "name": "Wigan"}, "away": {"id": 4, "name": "Bolton"}}},
			{"fixture": {"id": 103, "date": "garbage", "status": {"short": "NS"}},
			 "league": {"id": 41, "name": "League One"},
			 "teams": {"home": {"id": 5, "name": "Exeter"}, "away": {"id": 6, "name": "Lincoln"}}}
		]}`))
	})

	got, err := c.LeagueFixtures(context.Background(), LeagueOne)
	if err != nil {
		t.Fatalf("LeagueFixtures() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("LeagueFixtures() returned %d fixtures, want 1", len(got))
	}
	f := got[0]
	if f.ExternalID != "101" || f.HomeTeam.Name != "Barnsley" || f.Competition.Code != "EL1" {
		t.Errorf("LeagueFixtures()[0] = %+v", f)
	}
	if f.HomeTeam.ID != 0 || f.AwayTeam.ID != 0 {
		t.Errorf("LeagueFixtures()[0] team IDs = %d, %d, want 0, 0", f.HomeTeam.ID, f.AwayTeam.ID)
	}
	if !f.KickoffTime.Equal(time.Date(2026, 10, 14, 18, 45, 0, 0, time.UTC)) {
		t.Errorf("LeagueFixtures()[0] kickoff = %v", f.KickoffTime)
	}
}

const oddsBody = `{"response": [{"bookmakers": [
	{"id": 8, "name": "Bet365", "bets": [
		{"name": "Goals Over/Under", "values": [{"value": "Over 2.5", "odd": "1.90"}]},
		{"name": "Match Winner", "values": [
			{"value": "Home", "odd": "1.45"}, {"value": "Draw", "odd": "4.50"}, {"value": "Away", "odd": "7.00"}]}
	]},
	{"id": 9, "name": "Partial", "bets": [
		{"name": "Match Winner", "values": [{"value": "Home", "odd": "1.45"}, {"value": "Draw", "odd": "x"}]}
	]}
]}]}`

func TestFixtureOdds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fixture") != "101" || r.URL.Query().Get("bookmaker") != "8" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Write([]byte(oddsBody))
	})

	f := models.Fixture{ExternalID: "101", HomeTeam: models.TeamRef{Name: "Barnsley"}, AwayTeam: models.TeamRef{Name: "Reading"}}
	got, err := c.FixtureOdds(context.Background(), f)
	if err != nil {
		t.Fatalf("FixtureOdds() error = %v", err)
	}
	if got.HomeTeam != "Barnsley" || got.AwayTeam != "Reading" {
		t.Errorf("FixtureOdds() teams = %s v %s", got.HomeTeam, got.AwayTeam)
	}
	want := []models.OddsQuote{{Bookmaker: "Bet365", HomePrice: 1.45, DrawPrice: 4.5, AwayPrice: 7}}
	if len(got.Quotes) != 1 || got.Quotes[0] != want[0] {
		t.Errorf("FixtureOdds() quotes = %+v, want %+v", got.Quotes, want)
	}
}

func TestOddsForFixtures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fixture") == "2" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(oddsBody))
	})

	fixtures := []models.Fixture{{ExternalID: "1"}, {ExternalID: "2"}, {ExternalID: "3"}}
	got := c.OddsForFixtures(context.Background(), fixtures)
	if len(got) != 2 {
		t.Fatalf("OddsForFixtures() returned %d events, want 2", len(got))
	}
	if _, ok := got["2"]; ok {
		t.Error("OddsForFixtures() kept failed fixture 2")
	}
}

func TestCompetitionCode(t *testing.T) {
	tests := []struct {
		league int
		want   string
	}{
		{39, "PL"},
		{41, "EL1"},
		{2, "CL"},
		{999, "OTH"},
	}
	for _, tt := range tests {
		if got := CompetitionCode(tt.league); got != tt.want {
			t.Errorf("CompetitionCode(%d) = %q, want %q", tt.league, got, tt.want)
		}
	}
}
