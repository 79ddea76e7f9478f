// Package selection ranks candidates and picks a bounded daily slate.
package selection

import (
	"errors"
	"fmt"
	"sort"

	"github.com/omarshaarawi/hapdaily/internal/models"
)

// Rankable is anything the engine can filter and order.
type Rankable interface {
	QualifyingMetric() float64
	GapSignal() int
	FormWins() int
}

type Config struct {
	Threshold float64
	MinCount  int
	MaxCount  int
}

func (c Config) Validate() error {
	if c.MaxCount < 1 {
		return errors.New("max count must be at least 1")
	}
	if c.MinCount < 0 || c.MinCount > c.MaxCount {
		return fmt.Errorf("min count must be between 0 and %d, got %d", c.MaxCount, c.MinCount)
	}
	return nil
}

type Result[T Rankable] struct {
	Picks      []T
	Considered int
	Qualifying int
	Outcome    models.SlateOutcome
}

// Select filters candidates at or above the threshold, orders them by metric, standings gap
// and form wins (all descending, input order on ties) and keeps at most MaxCount. If fewer
// than MinCount qualify no picks are returned.
func Select[T Rankable](candidates []T, cfg Config) Result[T] {
	res := Result[T]{Considered: len(candidates)}

	var qualifying []T
	for _, c := range candidates {
		if c.QualifyingMetric() >= cfg.Threshold {
			qualifying = append(qualifying, c)
		}
	}
	res.Qualifying = len(qualifying)

	switch {
	case len(qualifying) == 0:
		res.Outcome = models.OutcomeNoQualifyingCandidates
		return res
	case len(qualifying) < cfg.MinCount:
		res.Outcome = models.OutcomeBelowMinimum
		return res
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		a, b := qualifying[i], qualifying[j]
		if a.QualifyingMetric() != b.QualifyingMetric() {
			return a.QualifyingMetric() > b.QualifyingMetric()
		}
		if a.GapSignal() != b.GapSignal() {
			return a.GapSignal() > b.GapSignal()
		}
		return a.FormWins() > b.FormWins()
	})

	if len(qualifying) > cfg.MaxCount {
		qualifying = qualifying[:cfg.MaxCount]
	}
	res.Picks = qualifying
	res.Outcome = models.OutcomeSelected
	return res
}
