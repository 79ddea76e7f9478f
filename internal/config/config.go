package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"

	"github.com/omarshaarawi/hapdaily/internal/api/oddsapi"
	"github.com/omarshaarawi/hapdaily/internal/selection"
	"github.com/omarshaarawi/hapdaily/internal/service"
)

type Config struct {
	TelegramBot  TelegramBot
	FootballData FootballData
	OddsAPI      OddsAPI
	APIFootball  APIFootball
	Statarea     Statarea
	Engines      Engines
	Schedule     Schedule
	Server       Server
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type FootballData struct {
	Token        string   `envconfig:"FOOTBALL_DATA_TOKEN"`
	BaseURL      string   `envconfig:"FOOTBALL_DATA_URL" default:"https://api.football-data.org/v4"`
	Competitions []string `envconfig:"FOOTBALL_DATA_COMPETITIONS" default:"PL,ELC,PD,BL1,SA,FL1,DED,PPL,BSA,CL,EL"`
}

type OddsAPI struct {
	Key      string `envconfig:"ODDS_API_KEY"`
	Provider string `envconfig:"ODDS_API_PROVIDER" default:"theoddsapi"`
	BaseURL  string `envconfig:"ODDS_API_URL"`
}

type APIFootball struct {
	Key     string `envconfig:"API_FOOTBALL_KEY"`
	BaseURL string `envconfig:"API_FOOTBALL_URL" default:"https://v3.football.api-sports.io"`
	Season  int    `envconfig:"API_FOOTBALL_SEASON"`
	Leagues []int  `envconfig:"API_FOOTBALL_LEAGUES" default:"41"`
}

type Statarea struct {
	Enabled bool   `envconfig:"STATAREA_ENABLED" default:"true"`
	BaseURL string `envconfig:"STATAREA_URL" default:"https://old.statarea.com/predictions"`
}

type Engines struct {
	Primary  string `envconfig:"PRIMARY_ENGINE" default:"odds"`
	Fallback string `envconfig:"FALLBACK_ENGINE" default:"api-football"`

	OddsThreshold float64 `envconfig:"ODDS_THRESHOLD" default:"0.80"`
	OddsMinPicks  int     `envconfig:"ODDS_MIN_PICKS" default:"2"`
	OddsMaxPicks  int     `envconfig:"ODDS_MAX_PICKS" default:"4"`

	HomeThreshold float64 `envconfig:"HOME_THRESHOLD" default:"0.40"`
	HomeMinPicks  int     `envconfig:"HOME_MIN_PICKS" default:"2"`
	HomeMaxPicks  int     `envconfig:"HOME_MAX_PICKS" default:"4"`

	ScrapeThreshold float64 `envconfig:"SCRAPE_THRESHOLD" default:"60"`
	ScrapeMinPicks  int     `envconfig:"SCRAPE_MIN_PICKS" default:"3"`
	ScrapeMaxPicks  int     `envconfig:"SCRAPE_MAX_PICKS" default:"8"`
}

type Schedule struct {
	Cron     string `envconfig:"SCHEDULE_CRON" default:"0 8 * * *"`
	Timezone string `envconfig:"SCHEDULE_TIMEZONE" default:"UTC"`
}

type Server struct {
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	DBPath    string `envconfig:"DB_PATH"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	c.OddsAPI.Provider = oddsapi.NormalizeProvider(c.OddsAPI.Provider)
	c.Engines.Primary = strings.ToLower(c.Engines.Primary)
	c.Engines.Fallback = strings.ToLower(c.Engines.Fallback)
	if c.APIFootball.Season == 0 {
		c.APIFootball.Season = currentSeason(time.Now())
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// currentSeason is the year the European season started: seasons roll over in July.
func currentSeason(now time.Time) int {
	if now.Month() < time.July {
		return now.Year() - 1
	}
	return now.Year()
}

func (e Engines) Odds() selection.Config {
	return selection.Config{Threshold: e.OddsThreshold, MinCount: e.OddsMinPicks, MaxCount: e.OddsMaxPicks}
}

func (e Engines) Home() selection.Config {
	return selection.Config{Threshold: e.HomeThreshold, MinCount: e.HomeMinPicks, MaxCount: e.HomeMaxPicks}
}

func (e Engines) Scrape() selection.Config {
	return selection.Config{Threshold: e.ScrapeThreshold, MinCount: e.ScrapeMinPicks, MaxCount: e.ScrapeMaxPicks}
}

// Location returns the scheduler's time zone.
func (s Schedule) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Validate checks ranges and that every enabled engine has its credentials.
func (c *Config) Validate() error {
	var errs []error

	if c.FootballData.Token == "" {
		errs = append(errs, errors.New("FOOTBALL_DATA_TOKEN is required"))
	}

	engines := map[string]bool{c.Engines.Primary: true}
	if c.Engines.Fallback != "" {
		engines[c.Engines.Fallback] = true
	}
	for engine := range engines {
		switch engine {
		case service.EngineOdds:
			if c.OddsAPI.Key == "" {
				errs = append(errs, errors.New("ODDS_API_KEY is required for the odds engine"))
			}
		case service.EngineAPIFootball:
			if c.APIFootball.Key == "" {
				errs = append(errs, errors.New("API_FOOTBALL_KEY is required for the api-football engine"))
			}
		case service.EngineStatarea:
			errs = append(errs, fmt.Errorf("%s cannot be the primary or fallback engine, enable it with STATAREA_ENABLED", engine))
		default:
			errs = append(errs, fmt.Errorf("unknown engine %q", engine))
		}
	}

	switch c.OddsAPI.Provider {
	case oddsapi.ProviderTheOddsAPI, oddsapi.ProviderRapidAPI:
	default:
		errs = append(errs, fmt.Errorf("ODDS_API_PROVIDER must be theoddsapi or rapidapi, got %q", c.OddsAPI.Provider))
	}

	for name, sel := range map[string]selection.Config{
		"odds":   c.Engines.Odds(),
		"home":   c.Engines.Home(),
		"scrape": c.Engines.Scrape(),
	} {
		if err := sel.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s selection: %w", name, err))
		}
	}
	for name, p := range map[string]float64{"ODDS_THRESHOLD": c.Engines.OddsThreshold, "HOME_THRESHOLD": c.Engines.HomeThreshold} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s must be between 0 and 1, got %v", name, p))
		}
	}
	// The scraper treats a zero minimum as unset, so zero is rejected here.
	if t := c.Engines.ScrapeThreshold; t <= 0 || t > 100 {
		errs = append(errs, fmt.Errorf("SCRAPE_THRESHOLD must be above 0 and at most 100, got %v", t))
	}

	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		errs = append(errs, fmt.Errorf("invalid SCHEDULE_CRON %q: %w", c.Schedule.Cron, err))
	}
	if _, err := c.Schedule.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", c.Schedule.Timezone, err))
	}

	switch strings.ToLower(c.Server.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Server.LogFormat))
	}

	return errors.Join(errs...)
}
