package models

import (
	"strings"
	"time"
)

type StandingRow struct {
	Position int
	TeamName string
}

type Standings struct {
	Competition string
	Rows        []StandingRow
}

// Position returns the table position of the named team (1 = best).
func (s *Standings) Position(teamName string) (int, bool) {
	if s == nil {
		return 0, false
	}
	want := strings.ToLower(strings.TrimSpace(teamName))
	for _, row := range s.Rows {
		if strings.ToLower(strings.TrimSpace(row.TeamName)) == want {
			return row.Position, true
		}
	}
	return 0, false
}

type PlayedMatch struct {
	HomeTeamID int
	AwayTeamID int
	HomeGoals  *int
	AwayGoals  *int
	UTCDate    time.Time
}

type FormResult int

const (
	NoData FormResult = iota
	Win
	Draw
	Loss
)

func (r FormResult) String() string {
	switch r {
	case Win:
		return "W"
	case Draw:
		return "D"
	case Loss:
		return "L"
	default:
		return "N"
	}
}

const FormLength = 5

// Form holds the last FormLength results in one venue role, most recent first.
type Form [FormLength]FormResult

func (f Form) String() string {
	var sb strings.Builder
	for _, r := range f {
		sb.WriteString(r.String())
	}
	return sb.String()
}

func (f Form) Wins() int {
	wins := 0
	for _, r := range f {
		if r == Win {
			wins++
		}
	}
	return wins
}

// Score weights results W=3, D=1, L=0 and counts missing data as 1.
func (f Form) Score() int {
	score := 0
	for _, r := range f {
		switch r {
		case Win:
			score += 3
		case Draw, NoData:
			score++
		}
	}
	return score
}

func (f Form) Quality() string {
	score := f.Score()
	switch {
	case score >= 12:
		return "Excellent"
	case score >= 9:
		return "Good"
	case score >= 6:
		return "Average"
	default:
		return "Poor"
	}
}

// ParseForm reads a WDLN string; unknown or missing letters become NoData.
func ParseForm(s string) Form {
	var f Form
	for i := 0; i < FormLength && i < len(s); i++ {
		switch s[i] {
		case 'W':
			f[i] = Win
		case 'D':
			f[i] = Draw
		case 'L':
			f[i] = Loss
		}
	}
	return f
}
