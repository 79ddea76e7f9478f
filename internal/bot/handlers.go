package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/hapdaily/internal/service"
)

const historyLimit = 7

const helpText = "Available commands:\n" +
	"/picks [engine] - Today's picks (odds, api-football, statarea)\n" +
	"/refresh - Regenerate today's picks\n" +
	"/scrape - Today's picks from the prediction site\n" +
	"/odds <home> v <away> <1> <X> <2> - Rank your own fixtures, one per line\n" +
	"/history [engine] - Recent slates"

// Picks is the part of the prediction service the bot needs.
type Picks interface {
	LatestReport(ctx context.Context, engine string) (string, error)
	DailyPicksReport(ctx context.Context) (string, error)
	ManualReport(ctx context.Context, entries []service.ManualEntry) (string, error)
	HistoryReport(ctx context.Context, engine string, limit int) (string, error)
}

type Handler struct {
	picks Picks
}

func NewHandler(picks Picks) *Handler {
	return &Handler{picks: picks}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to HapDaily! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "picks":
		h.handlePicks(ctx, &msg, strings.ToLower(args))
	case "refresh":
		h.handleRefresh(ctx, &msg)
	case "scrape":
		h.handlePicks(ctx, &msg, service.EngineStatarea)
	case "odds":
		h.handleOdds(ctx, &msg, args)
	case "history":
		h.handleHistory(ctx, &msg, strings.ToLower(args))
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handlePicks(ctx context.Context, msg *tgbotapi.MessageConfig, engine string) {
	switch engine {
	case "", service.EngineOdds, service.EngineAPIFootball, service.EngineStatarea:
	default:
		msg.Text = fmt.Sprintf("Unknown engine %q. Use odds, api-football or statarea.", engine)
		return
	}
	report, err := h.picks.LatestReport(ctx, engine)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching picks: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleRefresh(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.picks.DailyPicksReport(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error refreshing picks: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleOdds(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide fixtures with odds. Usage: /odds Arsenal v Chelsea 1.80 3.60 4.50"
		return
	}

	var entries []service.ManualEntry
	for _, line := range strings.Split(args, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry, err := service.ParseManualEntry(line)
		if err != nil {
			msg.Text = fmt.Sprintf("Could not read fixture: %v", err)
			return
		}
		entries = append(entries, entry)
	}

	report, err := h.picks.ManualReport(ctx, entries)
	if err != nil {
		msg.Text = fmt.Sprintf("Error ranking fixtures: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleHistory(ctx context.Context, msg *tgbotapi.MessageConfig, engine string) {
	report, err := h.picks.HistoryReport(ctx, engine, historyLimit)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching history: %v", err)
	} else {
		msg.Text = report
	}
}
