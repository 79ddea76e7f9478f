// Package enrichment adds league-table and recent-form signals to candidates.
package enrichment

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/omarshaarawi/hapdaily/internal/batch"
	"github.com/omarshaarawi/hapdaily/internal/models"
)

type StandingsSource interface {
	Standings(ctx context.Context, competitionCode string) (*models.Standings, error)
}

type HistorySource interface {
	TeamMatches(ctx context.Context, teamID int) ([]models.PlayedMatch, error)
}

// StandingsGap returns awayPosition - homePosition. It is zero when the table is missing
// or either team is not in it.
func StandingsGap(home, away string, table *models.Standings) int {
	homePos, ok := table.Position(home)
	if !ok {
		return 0
	}
	awayPos, ok := table.Position(away)
	if !ok {
		return 0
	}
	return awayPos - homePos
}

// FormFromMatches builds the team's last five results in the requested venue role, most
// recent first. Matches without a score count as NoData.
func FormFromMatches(teamID int, isHome bool, matches []models.PlayedMatch) models.Form {
	var form models.Form
	if teamID == 0 {
		return form
	}

	var played []models.PlayedMatch
	for _, m := range matches {
		if (isHome && m.HomeTeamID == teamID) || (!isHome && m.AwayTeamID == teamID) {
			played = append(played, m)
		}
	}
	sort.SliceStable(played, func(i, j int) bool {
		return played[i].UTCDate.After(played[j].UTCDate)
	})

	for i := 0; i < models.FormLength && i < len(played); i++ {
		form[i] = result(played[i], isHome)
	}
	return form
}

func result(m models.PlayedMatch, isHome bool) models.FormResult {
	if m.HomeGoals == nil || m.AwayGoals == nil {
		return models.NoData
	}
	own, other := *m.HomeGoals, *m.AwayGoals
	if !isHome {
		own, other = other, own
	}
	switch {
	case own > other:
		return models.Win
	case own == other:
		return models.Draw
	default:
		return models.Loss
	}
}

const (
	batchSize  = 5
	batchDelay = 200 * time.Millisecond
)

// Enricher fetches standings and form for one pipeline run. Standings are cached per
// competition for the Enricher's lifetime.
type Enricher struct {
	standings StandingsSource
	history   HistorySource
	opts      batch.Options

	mu    sync.Mutex
	cache map[string]*models.Standings
}

func NewEnricher(standings StandingsSource, history HistorySource) *Enricher {
	return &Enricher{
		standings: standings,
		history:   history,
		opts:      batch.Options{Size: batchSize, Delay: batchDelay},
		cache:     make(map[string]*models.Standings),
	}
}

// Standings returns the competition table, or nil when it cannot be fetched.
func (e *Enricher) Standings(ctx context.Context, code string) *models.Standings {
	if code == "" || e.standings == nil {
		return nil
	}
	e.mu.Lock()
	table, ok := e.cache[code]
	e.mu.Unlock()
	if ok {
		return table
	}

	table, err := e.standings.Standings(ctx, code)
	if err != nil {
		slog.Warn("Failed to fetch standings", "competition", code, "error", err)
		table = nil
	}

	e.mu.Lock()
	e.cache[code] = table
	e.mu.Unlock()
	return table
}

// TeamForm returns recent form, or all NoData when the team is unknown or the history
// cannot be fetched.
func (e *Enricher) TeamForm(ctx context.Context, teamID int, isHome bool) models.Form {
	if teamID == 0 || e.history == nil {
		return models.Form{}
	}
	matches, err := e.history.TeamMatches(ctx, teamID)
	if err != nil {
		slog.Warn("Failed to fetch team matches", "team_id", teamID, "error", err)
		return models.Form{}
	}
	return FormFromMatches(teamID, isHome, matches)
}

type formRequest struct {
	teamID int
	isHome bool
}

// Enrich fills standings gap and form on every candidate, keeping their order.
func (e *Enricher) Enrich(ctx context.Context, candidates []models.MatchCandidate) []models.MatchCandidate {
	var codes []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		code := c.Fixture.Competition.Code
		if code != "" && !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	batch.Run(ctx, codes, e.opts, func(ctx context.Context, code string) (*models.Standings, error) {
		return e.Standings(ctx, code), nil
	})

	var requests []formRequest
	for _, c := range candidates {
		requests = append(requests,
			formRequest{teamID: c.Fixture.HomeTeam.ID, isHome: true},
			formRequest{teamID: c.Fixture.AwayTeam.ID, isHome: false},
		)
	}
	forms := batch.Run(ctx, requests, e.opts, func(ctx context.Context, r formRequest) (models.Form, error) {
		return e.TeamForm(ctx, r.teamID, r.isHome), nil
	})

	out := make([]models.MatchCandidate, len(candidates))
	for i, c := range candidates {
		table := e.Standings(ctx, c.Fixture.Competition.Code)
		c.StandingsGap = StandingsGap(c.Fixture.HomeTeam.Name, c.Fixture.AwayTeam.Name, table)
		c.HomeForm = forms[2*i].Value
		c.AwayForm = forms[2*i+1].Value
		out[i] = c
	}
	return out
}
