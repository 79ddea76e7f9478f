package service

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/hapdaily/internal/models"
)

var engineTitles = map[string]string{
	EngineOdds:        "Daily Picks",
	EngineAPIFootball: "Home Win Picks",
	EngineStatarea:    "Statarea Picks",
	EngineManual:      "Manual Picks",
}

// FormatSlate renders a slate as a Telegram Markdown message.
func FormatSlate(slate models.StoredSlate) string {
	title, ok := engineTitles[slate.Engine]
	if !ok {
		title = "Picks"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚽ *%s* (%s)\n\n", title, slate.Date.Format("Mon 2 Jan 2006")))

	switch slate.Outcome {
	case models.OutcomeNoQualifyingCandidates:
		sb.WriteString("No confident picks today. Nothing reached the threshold.\n\n")
	case models.OutcomeBelowMinimum:
		sb.WriteString(fmt.Sprintf("No confident picks today. Only %d fixture(s) qualified.\n\n", slate.Stats.Qualifying))
	default:
		for _, p := range slate.Picks {
			sb.WriteString(formatPick(p))
		}
	}

	sb.WriteString(fmt.Sprintf("_Fixtures: %d | With odds: %d | Qualifying: %d | Selected: %d_",
		slate.Stats.TotalFixtures, slate.Stats.WithOdds, slate.Stats.Qualifying, slate.Stats.Selected))
	return sb.String()
}

// escape makes source-provided names safe inside Telegram Markdown.
func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func formatPick(p models.StoredPick) string {
	home, away := escape(p.HomeTeam), escape(p.AwayTeam)
	backed := home
	if p.Selected == models.Away {
		backed = away
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d. *%s* vs *%s*\n", p.Rank, home, away))
	sb.WriteString(fmt.Sprintf("   Pick: %s (%s) %.1f%%, %s\n", backed, p.Selected, p.WinProbability*100, p.Confidence))
	sb.WriteString(fmt.Sprintf("   %s, %s UTC\n\n", escape(p.League), p.KickoffTime.UTC().Format("15:04")))
	return sb.String()
}

func FormatHistory(slates []models.StoredSlate) string {
	if len(slates) == 0 {
		return "No slates stored yet."
	}
	var sb strings.Builder
	sb.WriteString("📚 *Recent Slates*\n\n")
	for _, s := range slates {
		sb.WriteString(fmt.Sprintf("*%s* %s: %d pick(s)", s.Date.Format("2 Jan"), escape(s.Engine), len(s.Picks)))
		if len(s.Picks) > 0 {
			names := make([]string, len(s.Picks))
			for i, p := range s.Picks {
				names[i] = escape(p.HomeTeam) + " v " + escape(p.AwayTeam)
			}
			sb.WriteString(": " + strings.Join(names, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (s *PredictionService) DailyPicksReport(ctx context.Context) (string, error) {
	slate, err := s.DailyPicks(ctx)
	if err != nil {
		return "", fmt.Errorf("error generating picks: %w", err)
	}
	return FormatSlate(storedFromPicks(slate)), nil
}

func (s *PredictionService) ScrapeReport(ctx context.Context) (string, error) {
	slate, err := s.ScrapeSlate(ctx)
	if err != nil {
		return "", fmt.Errorf("error scraping predictions: %w", err)
	}
	return FormatSlate(storedFromScrape(slate)), nil
}

func (s *PredictionService) LatestReport(ctx context.Context, engine string) (string, error) {
	slate, err := s.Latest(ctx, engine)
	if err != nil {
		return "", fmt.Errorf("error fetching picks: %w", err)
	}
	return FormatSlate(slate), nil
}

func (s *PredictionService) ManualReport(ctx context.Context, entries []ManualEntry) (string, error) {
	slate, err := s.ManualSlate(ctx, entries)
	if err != nil {
		return "", fmt.Errorf("error ranking manual odds: %w", err)
	}
	return FormatSlate(storedFromPicks(slate)), nil
}

func (s *PredictionService) HistoryReport(ctx context.Context, engine string, limit int) (string, error) {
	slates, err := s.History(ctx, engine, limit)
	if err != nil {
		return "", err
	}
	return FormatHistory(slates), nil
}
