package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/omarshaarawi/hapdaily/internal/models"
	"github.com/omarshaarawi/hapdaily/internal/odds"
)

const (
	manualLeague    = "Manual"
	manualBookmaker = "manual"
)

var ErrNoEntries = errors.New("no fixtures with odds provided")

// ManualEntry is a fixture with bookmaker prices typed in by a user.
type ManualEntry struct {
	HomeTeam    string
	AwayTeam    string
	League      string
	KickoffTime time.Time
	HomePrice   float64
	DrawPrice   float64
	AwayPrice   float64
}

// ParseManualEntry reads "Home v Away 1.50 4.20 6.00". The team separator may be "v" or "vs".
func ParseManualEntry(line string) (ManualEntry, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return ManualEntry{}, fmt.Errorf("expected \"home v away home-price draw-price away-price\", got %q", line)
	}

	n := len(fields)
	prices := make([]float64, 3)
	for i, raw := range fields[n-3:] {
		p, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil {
			return ManualEntry{}, fmt.Errorf("invalid price %q: %w", raw, err)
		}
		prices[i] = p
	}

	teamFields := fields[:n-3]
	sep := -1
	for i, f := range teamFields {
		if lf := strings.ToLower(f); lf == "v" || lf == "vs" {
			sep = i
			break
		}
	}
	if sep <= 0 || sep == len(teamFields)-1 {
		return ManualEntry{}, fmt.Errorf("missing team separator in %q", line)
	}

	return ManualEntry{
		HomeTeam:  strings.Join(teamFields[:sep], " "),
		AwayTeam:  strings.Join(teamFields[sep+1:], " "),
		HomePrice: prices[0],
		DrawPrice: prices[1],
		AwayPrice: prices[2],
	}, nil
}

// ManualSlate ranks user-supplied fixtures with the home-win selection rules.
// Entries with unusable prices are skipped.
func (s *PredictionService) ManualSlate(ctx context.Context, entries []ManualEntry) (models.PickSlate, error) {
	started := s.now()

	var candidates []models.MatchCandidate
	for i, e := range entries {
		n, ok := odds.NormalizeQuote(models.OddsQuote{
			Bookmaker: manualBookmaker,
			HomePrice: e.HomePrice,
			DrawPrice: e.DrawPrice,
			AwayPrice: e.AwayPrice,
		})
		if !ok {
			slog.Warn("Skipping manual entry with invalid prices", "home", e.HomeTeam, "away", e.AwayTeam)
			continue
		}
		candidates = append(candidates, homeCandidate(e.fixture(i, s.now()), n))
	}
	if len(candidates) == 0 {
		return models.PickSlate{}, ErrNoEntries
	}

	slate := s.finish(ctx, EngineManual, len(entries), candidates, s.opts.HomeSelection)
	s.observe(EngineManual, started, slate.Stats, slate.Outcome)
	s.save(ctx, storedFromPicks(slate))
	return slate, nil
}

func (e ManualEntry) fixture(i int, now time.Time) models.Fixture {
	f := models.Fixture{
		ExternalID:  fmt.Sprintf("%s-%d", EngineManual, i+1),
		HomeTeam:    models.TeamRef{Name: strings.TrimSpace(e.HomeTeam)},
		AwayTeam:    models.TeamRef{Name: strings.TrimSpace(e.AwayTeam)},
		Competition: models.Competition{Name: e.League},
		KickoffTime: e.KickoffTime,
		Status:      models.StatusScheduled,
		Source:      EngineManual,
	}
	if f.Competition.Name == "" {
		f.Competition.Name = manualLeague
	}
	if f.KickoffTime.IsZero() {
		f.KickoffTime = now.UTC()
	}
	return f
}
