// Package odds converts bookmaker prices into margin-free win probabilities.
package odds

import (
	"github.com/omarshaarawi/hapdaily/internal/models"
	"github.com/shopspring/decimal"
)

const (
	extremeThreshold  = 0.90
	veryHighThreshold = 0.85
	precision         = 4
)

// Normalize removes the bookmaker overround from three decimal prices.
// Prices must be validated with ValidQuote first. Each probability is rounded to four
// places, so the sum may differ from 1 by rounding.
func Normalize(home, draw, away float64) models.Probabilities {
	one := decimal.NewFromInt(1)
	rawHome := one.Div(decimal.NewFromFloat(home))
	rawDraw := one.Div(decimal.NewFromFloat(draw))
	rawAway := one.Div(decimal.NewFromFloat(away))
	overround := rawHome.Add(rawDraw).Add(rawAway)

	return models.Probabilities{
		Home: rawHome.Div(overround).Round(precision).InexactFloat64(),
		Draw: rawDraw.Div(overround).Round(precision).InexactFloat64(),
		Away: rawAway.Div(overround).Round(precision).InexactFloat64(),
	}
}

func ValidQuote(q models.OddsQuote) bool {
	return q.Valid()
}

// NormalizeQuote normalizes a single quote, reporting false for unusable prices.
func NormalizeQuote(q models.OddsQuote) (models.NormalizedOdds, bool) {
	if !ValidQuote(q) {
		return models.NormalizedOdds{}, false
	}
	return models.NormalizedOdds{
		Probabilities: Normalize(q.HomePrice, q.DrawPrice, q.AwayPrice),
		HomePrice:     q.HomePrice,
		DrawPrice:     q.DrawPrice,
		AwayPrice:     q.AwayPrice,
		Bookmaker:     q.Bookmaker,
	}, true
}

// BestQuote picks the valid quote with the highest home probability. Quotes are never
// averaged; on ties the earlier quote is kept.
func BestQuote(event models.OddsEvent) (models.NormalizedOdds, bool) {
	var best models.NormalizedOdds
	found := false
	for _, q := range event.Quotes {
		n, ok := NormalizeQuote(q)
		if !ok {
			continue
		}
		if !found || n.Home > best.Home {
			best = n
			found = true
		}
	}
	return best, found
}

func ConfidenceTier(p float64) models.ConfidenceTier {
	switch {
	case p >= extremeThreshold:
		return models.Extreme
	case p >= veryHighThreshold:
		return models.VeryHigh
	default:
		return models.High
	}
}
