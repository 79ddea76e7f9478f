package models

import (
	"errors"
	"strings"
	"time"
)

type FixtureStatus int

const (
	StatusOther FixtureStatus = iota
	StatusScheduled
	StatusTimed
	StatusLive
	StatusFinished
	StatusPostponed
	StatusCancelled
)

var statusNames = map[FixtureStatus]string{
	StatusOther:     "OTHER",
	StatusScheduled: "SCHEDULED",
	StatusTimed:     "TIMED",
	StatusLive:      "LIVE",
	StatusFinished:  "FINISHED",
	StatusPostponed: "POSTPONED",
	StatusCancelled: "CANCELLED",
}

func (s FixtureStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "OTHER"
}

// PreMatch reports whether a fixture in this state can still be predicted.
func (s FixtureStatus) PreMatch() bool {
	return s == StatusScheduled || s == StatusTimed
}

// ParseFixtureStatus maps football-data.org and api-football status codes.
func ParseFixtureStatus(raw string) FixtureStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SCHEDULED", "TBD":
		return StatusScheduled
	case "TIMED", "NS":
		return StatusTimed
	case "LIVE", "IN_PLAY", "PAUSED", "1H", "HT", "2H", "ET", "BT", "P", "BREAK", "INT":
		return StatusLive
	case "FINISHED", "FT", "AET", "PEN", "AWARDED", "AWD", "WO":
		return StatusFinished
	case "POSTPONED", "PST", "SUSPENDED", "SUSP", "DELAYED":
		return StatusPostponed
	case "CANCELLED", "CANC", "ABD":
		return StatusCancelled
	default:
		return StatusOther
	}
}

type TeamRef struct {
	// ID is the team's identifier in the form-history source. Zero means unknown.
	ID   int
	Name string
}

type Competition struct {
	Name string
	Code string
}

type Fixture struct {
	ExternalID  string
	HomeTeam    TeamRef
	AwayTeam    TeamRef
	Competition Competition
	KickoffTime time.Time
	Status      FixtureStatus
	Source      string
}

func (f Fixture) Eligible() bool {
	return f.Status.PreMatch()
}

// Key identifies a fixture across sources by its team names.
func (f Fixture) Key() string {
	return f.HomeTeam.Name + "-" + f.AwayTeam.Name
}

// Validate rejects records missing the fields the pipeline relies on.
func (f Fixture) Validate() error {
	if f.ExternalID == "" {
		return errors.New("fixture ID must not be empty")
	}
	if strings.TrimSpace(f.HomeTeam.Name) == "" || strings.TrimSpace(f.AwayTeam.Name) == "" {
		return errors.New("fixture team names must not be empty")
	}
	if f.KickoffTime.IsZero() {
		return errors.New("fixture kickoff time must be set")
	}
	return nil
}

type OddsQuote struct {
	Bookmaker string
	HomePrice float64
	DrawPrice float64
	AwayPrice float64
}

// Valid reports whether every price is a usable decimal price.
func (q OddsQuote) Valid() bool {
	return q.HomePrice > 1.0 && q.DrawPrice > 1.0 && q.AwayPrice > 1.0
}

type OddsEvent struct {
	EventID      string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
	Quotes       []OddsQuote
}

func (e OddsEvent) Validate() error {
	if e.EventID == "" {
		return errors.New("odds event ID must not be empty")
	}
	if strings.TrimSpace(e.HomeTeam) == "" || strings.TrimSpace(e.AwayTeam) == "" {
		return errors.New("odds event team names must not be empty")
	}
	return nil
}

type Probabilities struct {
	Home float64
	Draw float64
	Away float64
}

type NormalizedOdds struct {
	Probabilities
	HomePrice float64
	DrawPrice float64
	AwayPrice float64
	Bookmaker string
}
