package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/omarshaarawi/hapdaily/internal/api/apifootball"
	"github.com/omarshaarawi/hapdaily/internal/api/footballdata"
	"github.com/omarshaarawi/hapdaily/internal/api/oddsapi"
	"github.com/omarshaarawi/hapdaily/internal/api/rest"
	"github.com/omarshaarawi/hapdaily/internal/bot"
	"github.com/omarshaarawi/hapdaily/internal/config"
	"github.com/omarshaarawi/hapdaily/internal/metrics"
	"github.com/omarshaarawi/hapdaily/internal/repository/memory"
	"github.com/omarshaarawi/hapdaily/internal/repository/sqlite"
	"github.com/omarshaarawi/hapdaily/internal/scheduler"
	"github.com/omarshaarawi/hapdaily/internal/scraper/statarea"
	"github.com/omarshaarawi/hapdaily/internal/service"
	"github.com/omarshaarawi/hapdaily/internal/teams"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg.Server))

	footballData := footballdata.NewClient(cfg.FootballData.BaseURL, cfg.FootballData.Token, cfg.FootballData.Competitions,
		rest.WithRateLimit(0.15, 1))

	src := service.Sources{
		Fixtures:  footballData,
		Standings: footballData,
		History:   footballData,
		Odds: oddsapi.NewClient(oddsapi.Config{
			Provider: cfg.OddsAPI.Provider,
			BaseURL:  cfg.OddsAPI.BaseURL,
			APIKey:   cfg.OddsAPI.Key,
		}),
	}
	if cfg.APIFootball.Key != "" {
		src.Leagues = apifootball.NewClient(cfg.APIFootball.BaseURL, cfg.APIFootball.Key, cfg.APIFootball.Season)
	}
	if cfg.Statarea.Enabled {
		src.Scraper = statarea.NewScraper(cfg.Statarea.BaseURL, cfg.Engines.ScrapeThreshold)
	}

	var archive service.SlateArchive
	storage, err := sqlite.New(cfg.Server.DBPath)
	if err != nil {
		slog.Error("Slate archive unavailable, keeping slates in memory only", "error", err)
	} else {
		defer storage.Close()
		archive = storage
	}

	pipelineMetrics := metrics.NewPipelineMetrics()
	predictions := service.NewPredictionService(
		src,
		teams.NewNormalizer(teams.DefaultAliases()),
		memory.NewRepository(),
		archive,
		pipelineMetrics,
		service.Options{
			PrimaryEngine:   cfg.Engines.Primary,
			FallbackEngine:  cfg.Engines.Fallback,
			OddsSelection:   cfg.Engines.Odds(),
			HomeSelection:   cfg.Engines.Home(),
			ScrapeSelection: cfg.Engines.Scrape(),
			Leagues:         cfg.APIFootball.Leagues,
		},
	)

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, predictions)
	if err != nil {
		return err
	}

	location, err := cfg.Schedule.Location()
	if err != nil {
		return err
	}
	sched, err := scheduler.NewScheduler(predictions, telegramBot.SendMessage, scheduler.Options{
		Cron:     cfg.Schedule.Cron,
		Location: location,
		Scrape:   cfg.Statarea.Enabled,
	})
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthCheckHandler)
	mux.Handle("/metrics", pipelineMetrics.Handler())
	server := &http.Server{Addr: cfg.Server.HTTPAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error stopping HTTP server", "error", err)
	}

	return nil
}

func newLogger(cfg config.Server) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
