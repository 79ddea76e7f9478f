package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeReports struct {
	daily     string
	dailyErr  error
	scrape    string
	scrapeErr error
}

func (f fakeReports) DailyPicksReport(context.Context) (string, error) { return f.daily, f.dailyErr }

func (f fakeReports) ScrapeReport(context.Context) (string, error) { return f.scrape, f.scrapeErr }

func TestRunDaily(t *testing.T) {
	tests := []struct {
		name    string
		reports fakeReports
		scrape  bool
		want    []string
	}{
		{
			name:    "daily only",
			reports: fakeReports{daily: "picks", scrape: "scraped"},
			want:    []string{"picks"},
		},
		{
			name:    "daily and scrape",
			reports: fakeReports{daily: "picks", scrape: "scraped"},
			scrape:  true,
			want:    []string{"picks", "scraped"},
		},
		{
			name:    "errors are published",
			reports: fakeReports{dailyErr: errors.New("odds down"), scrapeErr: errors.New("blocked")},
			scrape:  true,
			want:    []string{"Could not generate today's picks: odds down", "Could not scrape today's predictions: blocked"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sent []string
			s, err := NewScheduler(tt.reports, func(text string) error {
				sent = append(sent, text)
				return nil
			}, Options{Cron: "0 8 * * *", Scrape: tt.scrape})
			if err != nil {
				t.Fatalf("NewScheduler() error = %v", err)
			}

			s.runDaily(context.Background())

			if len(sent) != len(tt.want) {
				t.Fatalf("sent %d messages, want %d: %v", len(sent), len(tt.want), sent)
			}
			for i, want := range tt.want {
				if !strings.Contains(sent[i], want) {
					t.Errorf("message %d = %q, want containing %q", i, sent[i], want)
				}
			}
		})
	}
}

func TestStart(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	send := func(string) error { return nil }

	s, err := NewScheduler(fakeReports{}, send, Options{Cron: "0 8 * * *", Location: loc})
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}

	bad, err := NewScheduler(fakeReports{}, send, Options{Cron: "not a cron"})
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if err := bad.Start(); err == nil {
		t.Error("Start() error = nil, want invalid cron error")
	}
}
