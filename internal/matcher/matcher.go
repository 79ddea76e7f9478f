// Package matcher pairs fixtures from the fixture source with odds events.
package matcher

import (
	"github.com/omarshaarawi/hapdaily/internal/models"
	"github.com/omarshaarawi/hapdaily/internal/teams"
)

// MatchFixtureToOdds returns the first event whose home and away teams both match the
// fixture's. A match on only one side is not a match.
func MatchFixtureToOdds(n *teams.Normalizer, f models.Fixture, events []models.OddsEvent) (models.OddsEvent, bool) {
	for _, e := range events {
		if _, ok := n.Match(f.HomeTeam.Name, []string{e.HomeTeam}); !ok {
			continue
		}
		if _, ok := n.Match(f.AwayTeam.Name, []string{e.AwayTeam}); !ok {
			continue
		}
		return e, true
	}
	return models.OddsEvent{}, false
}

// Pair is a fixture together with the odds event it matched.
type Pair struct {
	Fixture models.Fixture
	Event   models.OddsEvent
}

// MatchAll matches every fixture, preserving fixture order. The second return value is
// the fixtures that found no event.
func MatchAll(n *teams.Normalizer, fixtures []models.Fixture, events []models.OddsEvent) ([]Pair, []models.Fixture) {
	var pairs []Pair
	var unmatched []models.Fixture
	for _, f := range fixtures {
		e, ok := MatchFixtureToOdds(n, f, events)
		if !ok {
			unmatched = append(unmatched, f)
			continue
		}
		pairs = append(pairs, Pair{Fixture: f, Event: e})
	}
	return pairs, unmatched
}
