package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const jobTimeout = 10 * time.Minute

// Reports produces the messages published every morning.
type Reports interface {
	DailyPicksReport(ctx context.Context) (string, error)
	ScrapeReport(ctx context.Context) (string, error)
}

type Options struct {
	Cron     string
	Location *time.Location
	// Scrape also publishes the prediction-site slate.
	Scrape bool
}

type Scheduler struct {
	s           gocron.Scheduler
	reports     Reports
	sendMessage func(string) error
	opts        Options
}

func NewScheduler(reports Reports, sendMessage func(string) error, opts Options) (*Scheduler, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(opts.Location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		reports:     reports,
		sendMessage: sendMessage,
		opts:        opts,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.CronJob(s.opts.Cron, false),
		gocron.NewTask(s.sendDailyPicks),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create daily picks job: %w", err)
	}

	s.s.Start()
	slog.Info("Scheduler started", "cron", s.opts.Cron, "location", s.opts.Location.String())
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) sendDailyPicks() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.runDaily(ctx)
}

func (s *Scheduler) runDaily(ctx context.Context) {
	report, err := s.reports.DailyPicksReport(ctx)
	if err != nil {
		slog.Error("Failed to generate daily picks", "error", err)
		report = fmt.Sprintf("⚠️ Could not generate today's picks: %v", err)
	}
	s.send(report)

	if !s.opts.Scrape {
		return
	}
	report, err = s.reports.ScrapeReport(ctx)
	if err != nil {
		slog.Error("Failed to scrape predictions", "error", err)
		report = fmt.Sprintf("⚠️ Could not scrape today's predictions: %v", err)
	}
	s.send(report)
}

func (s *Scheduler) send(text string) {
	if err := s.sendMessage(text); err != nil {
		slog.Error("Failed to publish report", "error", err)
	}
}
