package models

import (
	"errors"
	"time"
)

type Outcome int

const (
	Home Outcome = iota
	Away
)

func (o Outcome) String() string {
	if o == Away {
		return "AWAY"
	}
	return "HOME"
}

type ConfidenceTier int

const (
	High ConfidenceTier = iota
	VeryHigh
	Extreme
)

func (c ConfidenceTier) String() string {
	switch c {
	case Extreme:
		return "Extreme"
	case VeryHigh:
		return "Very High"
	default:
		return "High"
	}
}

func ParseConfidenceTier(s string) ConfidenceTier {
	switch s {
	case "Extreme":
		return Extreme
	case "Very High":
		return VeryHigh
	default:
		return High
	}
}

type MatchCandidate struct {
	Fixture          Fixture
	Odds             NormalizedOdds
	StandingsGap     int
	HomeForm         Form
	AwayForm         Form
	PredictedOutcome Outcome
	WinProbability   float64
	Confidence       ConfidenceTier
}

func (c MatchCandidate) QualifyingMetric() float64 { return c.WinProbability }

func (c MatchCandidate) GapSignal() int { return c.StandingsGap }

// FormWins counts wins for the side the candidate backs.
func (c MatchCandidate) FormWins() int {
	if c.PredictedOutcome == Away {
		return c.AwayForm.Wins()
	}
	return c.HomeForm.Wins()
}

func (c MatchCandidate) Validate() error {
	if c.Fixture.HomeTeam.Name == "" || c.Fixture.AwayTeam.Name == "" {
		return errors.New("candidate team names must not be empty")
	}
	if c.Fixture.Competition.Name == "" || c.Fixture.KickoffTime.IsZero() {
		return errors.New("candidate league and kickoff must be set")
	}
	for _, p := range []float64{c.Odds.Home, c.Odds.Away, c.WinProbability} {
		if p < 0 || p > 1 {
			return errors.New("candidate probabilities must be between 0 and 1")
		}
	}
	if c.Odds.HomePrice <= 1 || c.Odds.DrawPrice <= 1 || c.Odds.AwayPrice <= 1 {
		return errors.New("candidate prices must be greater than 1")
	}
	if c.PredictedOutcome != Home && c.PredictedOutcome != Away {
		return errors.New("candidate predicted outcome must be home or away")
	}
	return nil
}

type ScrapedFixture struct {
	ID          string
	HomeTeam    string
	AwayTeam    string
	League      string
	KickoffTime time.Time
	// ApproximateKickoff marks rows whose time text could not be parsed.
	ApproximateKickoff    bool
	HomeWinningPercentage float64
	AwayWinningPercentage float64
	SelectedTeam          Outcome
	WinningPercentage     float64
}

func (s ScrapedFixture) QualifyingMetric() float64 { return s.WinningPercentage }

func (s ScrapedFixture) GapSignal() int { return 0 }

func (s ScrapedFixture) FormWins() int { return 0 }

type ScrapingResult struct {
	Fixtures    []ScrapedFixture
	RowsSeen    int
	RowsSkipped int
}

type SlateOutcome int

const (
	OutcomeSelected SlateOutcome = iota
	OutcomeNoQualifyingCandidates
	OutcomeBelowMinimum
)

func (o SlateOutcome) String() string {
	switch o {
	case OutcomeNoQualifyingCandidates:
		return "no_qualifying_candidates"
	case OutcomeBelowMinimum:
		return "below_minimum"
	default:
		return "selected"
	}
}

type SlateStats struct {
	TotalFixtures int
	WithOdds      int
	Qualifying    int
	Selected      int
}

type Slate[T any] struct {
	Engine  string
	Date    time.Time
	Picks   []T
	Stats   SlateStats
	Outcome SlateOutcome
}

// PickSlate is a slate built from odds-backed candidates.
type PickSlate = Slate[MatchCandidate]

// ScrapeSlate is a slate built from scraped prediction percentages.
type ScrapeSlate = Slate[ScrapedFixture]

// StoredPick is the persistence shape shared by both slate kinds.
type StoredPick struct {
	Rank           int
	ExternalID     string
	HomeTeam       string
	AwayTeam       string
	League         string
	KickoffTime    time.Time
	Selected       Outcome
	WinProbability float64
	Confidence     ConfidenceTier
}

type StoredSlate struct {
	Engine  string
	Date    time.Time
	Outcome SlateOutcome
	Stats   SlateStats
	Picks   []StoredPick
}
