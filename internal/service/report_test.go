package service

import (
	"strings"
	"testing"
	"time"

	"github.com/omarshaarawi/hapdaily/internal/models"
)

func TestFormatSlate(t *testing.T) {
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		slate    models.StoredSlate
		contains []string
		excludes []string
	}{
		{
			name: "selected picks",
			slate: models.StoredSlate{
				Engine:  EngineOdds,
				Date:    date,
				Outcome: models.OutcomeSelected,
				Stats:   models.SlateStats{TotalFixtures: 10, WithOdds: 8, Qualifying: 2, Selected: 2},
				Picks: []models.StoredPick{
					{Rank: 1, HomeTeam: "Arsenal FC", AwayTeam: "Burnley FC", League: "Premier League",
						KickoffTime: date.Add(15 * time.Hour), Selected: models.Home, WinProbability: 0.8514, Confidence: models.VeryHigh},
					{Rank: 2, HomeTeam: "Everton FC", AwayTeam: "Liverpool FC", League: "Premier League",
						KickoffTime: date.Add(17*time.Hour + 30*time.Minute), Selected: models.Away, WinProbability: 0.9, Confidence: models.Extreme},
				},
			},
			contains: []string{
				"*Daily Picks* (Wed 14 Oct 2026)",
				"1. *Arsenal FC* vs *Burnley FC*",
				"Pick: Arsenal FC (HOME) 85.1%, Very High",
				"Pick: Liverpool FC (AWAY) 90.0%, Extreme",
				"Premier League, 17:30 UTC",
				"_Fixtures: 10 | With odds: 8 | Qualifying: 2 | Selected: 2_",
			},
			excludes: []string{"No confident picks"},
		},
		{
			name: "markdown in names is escaped",
			slate: models.StoredSlate{
				Engine:  EngineManual,
				Date:    date,
				Outcome: models.OutcomeSelected,
				Picks: []models.StoredPick{
					{Rank: 1, HomeTeam: "Team_A", AwayTeam: "*Stars*", League: "`Cup` [B]",
						KickoffTime: date, Selected: models.Home, WinProbability: 0.5},
				},
			},
			contains: []string{
				"1. *Team\\_A* vs *\\*Stars\\**",
				"Pick: Team\\_A (HOME)",
				"\\`Cup\\` \\[B]",
			},
		},
		{
			name:     "nothing qualified",
			slate:    models.StoredSlate{Engine: EngineStatarea, Date: date, Outcome: models.OutcomeNoQualifyingCandidates},
			contains: []string{"*Statarea Picks*", "No confident picks today. Nothing reached the threshold."},
		},
		{
			name: "below minimum",
			slate: models.StoredSlate{Engine: "other", Date: date, Outcome: models.OutcomeBelowMinimum,
				Stats: models.SlateStats{Qualifying: 1}},
			contains: []string{"*Picks*", "Only 1 fixture(s) qualified."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSlate(tt.slate)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatSlate() missing %q in:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("FormatSlate() unexpectedly contains %q", unwanted)
				}
			}
		})
	}
}

func TestFormatHistory(t *testing.T) {
	if got := FormatHistory(nil); got != "No slates stored yet." {
		t.Errorf("FormatHistory(nil) = %q", got)
	}

	got := FormatHistory([]models.StoredSlate{{
		Engine: EngineOdds,
		Date:   time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC),
		Picks:  []models.StoredPick{{HomeTeam: "Ajax", AwayTeam: "PSV"}, {HomeTeam: "Go_Ahead", AwayTeam: "Twente"}},
	}})
	if !strings.Contains(got, "*13 Oct* odds: 2 pick(s): Ajax v PSV, Go\\_Ahead v Twente") {
		t.Errorf("FormatHistory() = %q", got)
	}
}
