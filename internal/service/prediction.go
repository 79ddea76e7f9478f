package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/omarshaarawi/hapdaily/internal/api/rest"
	"github.com/omarshaarawi/hapdaily/internal/enrichment"
	"github.com/omarshaarawi/hapdaily/internal/matcher"
	"github.com/omarshaarawi/hapdaily/internal/metrics"
	"github.com/omarshaarawi/hapdaily/internal/models"
	"github.com/omarshaarawi/hapdaily/internal/odds"
	"github.com/omarshaarawi/hapdaily/internal/repository/memory"
	"github.com/omarshaarawi/hapdaily/internal/selection"
	"github.com/omarshaarawi/hapdaily/internal/teams"
)

const (
	EngineOdds        = "odds"
	EngineAPIFootball = "api-football"
	EngineStatarea    = "statarea"
	EngineManual      = "manual"
)

type FixtureSource interface {
	Fixtures(ctx context.Context) ([]models.Fixture, error)
}

type OddsSource interface {
	AllOdds(ctx context.Context) ([]models.OddsEvent, error)
}

// LeagueSource provides fixtures and per-fixture odds for leagues the fixture source lacks.
type LeagueSource interface {
	LeagueFixtures(ctx context.Context, leagueID int) ([]models.Fixture, error)
	OddsForFixtures(ctx context.Context, fixtures []models.Fixture) map[string]models.OddsEvent
}

type Scraper interface {
	Scrape(ctx context.Context) (models.ScrapingResult, error)
}

type SlateArchive interface {
	SaveSlate(ctx context.Context, slate models.StoredSlate) error
	LatestSlate(ctx context.Context, engine string) (models.StoredSlate, bool, error)
	History(ctx context.Context, engine string, limit int) ([]models.StoredSlate, error)
}

// Sources are the external collaborators of the pipeline. Leagues and Scraper may be nil
// when their engines are not used.
type Sources struct {
	Fixtures  FixtureSource
	Odds      OddsSource
	Leagues   LeagueSource
	Standings enrichment.StandingsSource
	History   enrichment.HistorySource
	Scraper   Scraper
}

type Options struct {
	PrimaryEngine   string
	FallbackEngine  string
	OddsSelection   selection.Config
	HomeSelection   selection.Config
	ScrapeSelection selection.Config
	Leagues         []int
}

type PredictionService struct {
	src     Sources
	names   *teams.Normalizer
	cache   *memory.Repository
	archive SlateArchive
	metrics *metrics.PipelineMetrics
	opts    Options
	now     func() time.Time
}

// NewPredictionService wires the pipeline. archive may be nil, in which case slates only
// live in memory.
func NewPredictionService(src Sources, names *teams.Normalizer, cache *memory.Repository, archive SlateArchive, m *metrics.PipelineMetrics, opts Options) *PredictionService {
	return &PredictionService{
		src:     src,
		names:   names,
		cache:   cache,
		archive: archive,
		metrics: m,
		opts:    opts,
		now:     time.Now,
	}
}

// DailyPicks runs the primary engine, and the fallback engine when the primary could not
// reach one of its sources.
func (s *PredictionService) DailyPicks(ctx context.Context) (models.PickSlate, error) {
	primary := s.opts.PrimaryEngine
	slate, err := s.Generate(ctx, primary)
	if err == nil {
		return slate, nil
	}

	fallback := s.opts.FallbackEngine
	if fallback == "" || fallback == primary || !errors.Is(err, rest.ErrSourceUnavailable) {
		return slate, err
	}

	slog.Warn("Primary engine failed, running fallback", "primary", primary, "fallback", fallback, "error", err)
	s.metrics.ObserveFallback()
	slate, fallbackErr := s.Generate(ctx, fallback)
	if fallbackErr != nil {
		return slate, errors.Join(err, fallbackErr)
	}
	return slate, nil
}

// Generate runs one engine end to end and stores the resulting slate.
func (s *PredictionService) Generate(ctx context.Context, engine string) (models.PickSlate, error) {
	started := s.now()

	var (
		slate models.PickSlate
		err   error
	)
	switch engine {
	case EngineOdds:
		slate, err = s.runOdds(ctx)
	case EngineAPIFootball:
		slate, err = s.runAPIFootball(ctx)
	default:
		return slate, fmt.Errorf("unknown engine %q", engine)
	}
	if err != nil {
		s.metrics.ObserveFailure(engine)
		return slate, fmt.Errorf("%s engine: %w", engine, err)
	}

	s.observe(engine, started, slate.Stats, slate.Outcome)
	s.save(ctx, storedFromPicks(slate))
	return slate, nil
}

func (s *PredictionService) runOdds(ctx context.Context) (models.PickSlate, error) {
	fixtures, err := s.src.Fixtures.Fixtures(ctx)
	if err != nil {
		return models.PickSlate{}, err
	}
	events, err := s.src.Odds.AllOdds(ctx)
	if err != nil {
		return models.PickSlate{}, fmt.Errorf("fetching odds: %w", err)
	}

	pairs, unmatched := matcher.MatchAll(s.names, fixtures, events)
	if len(unmatched) > 0 {
		slog.Debug("Fixtures without odds", "count", len(unmatched))
	}

	var candidates []models.MatchCandidate
	for _, p := range pairs {
		best, ok := odds.BestQuote(p.Event)
		if !ok {
			continue
		}
		candidates = append(candidates, twoWayCandidate(p.Fixture, best))
	}
	return s.finish(ctx, EngineOdds, len(fixtures), candidates, s.opts.OddsSelection), nil
}

func (s *PredictionService) runAPIFootball(ctx context.Context) (models.PickSlate, error) {
	if s.src.Leagues == nil {
		return models.PickSlate{}, errors.New("league source not configured")
	}
	base, err := s.src.Fixtures.Fixtures(ctx)
	if err != nil {
		return models.PickSlate{}, err
	}

	var extra []models.Fixture
	for _, league := range s.opts.Leagues {
		fixtures, err := s.src.Leagues.LeagueFixtures(ctx, league)
		if err != nil {
			return models.PickSlate{}, err
		}
		extra = append(extra, fixtures...)
	}
	fixtures := MergeFixtures(base, extra)

	events := s.src.Leagues.OddsForFixtures(ctx, extra)
	byKey := make(map[string]models.OddsEvent, len(events))
	for _, f := range extra {
		if e, ok := events[f.ExternalID]; ok {
			byKey[f.Key()] = e
		}
	}

	var candidates []models.MatchCandidate
	for _, f := range fixtures {
		e, ok := byKey[f.Key()]
		if !ok {
			continue
		}
		best, ok := odds.BestQuote(e)
		if !ok {
			continue
		}
		candidates = append(candidates, homeCandidate(f, best))
	}
	return s.finish(ctx, EngineAPIFootball, len(fixtures), candidates, s.opts.HomeSelection), nil
}

// MergeFixtures appends extra fixtures whose home-away key is not already present,
// keeping base order first.
func MergeFixtures(base, extra []models.Fixture) []models.Fixture {
	seen := make(map[string]bool, len(base)+len(extra))
	merged := make([]models.Fixture, 0, len(base)+len(extra))
	for _, list := range [][]models.Fixture{base, extra} {
		for _, f := range list {
			if seen[f.Key()] {
				continue
			}
			seen[f.Key()] = true
			merged = append(merged, f)
		}
	}
	return merged
}

// twoWayCandidate backs whichever side is more likely, home on ties.
func twoWayCandidate(f models.Fixture, n models.NormalizedOdds) models.MatchCandidate {
	c := models.MatchCandidate{Fixture: f, Odds: n, PredictedOutcome: models.Home, WinProbability: n.Home}
	if n.Away > n.Home {
		c.PredictedOutcome = models.Away
		c.WinProbability = n.Away
	}
	c.Confidence = odds.ConfidenceTier(c.WinProbability)
	return c
}

func homeCandidate(f models.Fixture, n models.NormalizedOdds) models.MatchCandidate {
	return models.MatchCandidate{
		Fixture:          f,
		Odds:             n,
		PredictedOutcome: models.Home,
		WinProbability:   n.Home,
		Confidence:       odds.ConfidenceTier(n.Home),
	}
}

func (s *PredictionService) finish(ctx context.Context, engine string, total int, candidates []models.MatchCandidate, cfg selection.Config) models.PickSlate {
	var valid []models.MatchCandidate
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			slog.Warn("Skipping invalid candidate", "engine", engine, "fixture", c.Fixture.ExternalID, "error", err)
			continue
		}
		valid = append(valid, c)
	}

	enricher := enrichment.NewEnricher(s.src.Standings, s.src.History)
	enriched := enricher.Enrich(ctx, valid)

	res := selection.Select(enriched, cfg)
	slate := models.PickSlate{
		Engine:  engine,
		Date:    s.today(),
		Picks:   res.Picks,
		Outcome: res.Outcome,
		Stats: models.SlateStats{
			TotalFixtures: total,
			WithOdds:      len(enriched),
			Qualifying:    res.Qualifying,
			Selected:      len(res.Picks),
		},
	}
	return slate
}

// ScrapeSlate builds a slate from the prediction site's percentages.
func (s *PredictionService) ScrapeSlate(ctx context.Context) (models.ScrapeSlate, error) {
	if s.src.Scraper == nil {
		return models.ScrapeSlate{}, errors.New("scraper not configured")
	}
	started := s.now()

	result, err := s.src.Scraper.Scrape(ctx)
	if err != nil {
		s.metrics.ObserveFailure(EngineStatarea)
		return models.ScrapeSlate{}, fmt.Errorf("%s engine: %w", EngineStatarea, err)
	}

	res := selection.Select(result.Fixtures, s.opts.ScrapeSelection)
	parsed := result.RowsSeen - result.RowsSkipped
	slate := models.ScrapeSlate{
		Engine:  EngineStatarea,
		Date:    s.today(),
		Picks:   res.Picks,
		Outcome: res.Outcome,
		Stats: models.SlateStats{
			TotalFixtures: parsed,
			WithOdds:      len(result.Fixtures),
			Qualifying:    res.Qualifying,
			Selected:      len(res.Picks),
		},
	}

	s.observe(EngineStatarea, started, slate.Stats, slate.Outcome)
	s.save(ctx, storedFromScrape(slate))
	return slate, nil
}

// Latest returns today's stored slate for engine, generating it when none exists yet.
func (s *PredictionService) Latest(ctx context.Context, engine string) (models.StoredSlate, error) {
	if engine == "" {
		engine = s.opts.PrimaryEngine
	}
	today := s.today()

	if slate, ok, _ := s.cache.LatestSlate(ctx, engine); ok && !slate.Date.Before(today) {
		return slate, nil
	}
	if s.archive != nil {
		slate, ok, err := s.archive.LatestSlate(ctx, engine)
		if err != nil {
			slog.Warn("Failed to read slate archive", "engine", engine, "error", err)
		} else if ok && !slate.Date.Before(today) {
			s.cache.SaveSlate(ctx, slate)
			return slate, nil
		}
	}

	switch engine {
	case EngineStatarea:
		slate, err := s.ScrapeSlate(ctx)
		if err != nil {
			return models.StoredSlate{}, err
		}
		return storedFromScrape(slate), nil
	default:
		slate, err := s.Generate(ctx, engine)
		if err != nil {
			return models.StoredSlate{}, err
		}
		return storedFromPicks(slate), nil
	}
}

// History returns archived slates for engine, newest first.
func (s *PredictionService) History(ctx context.Context, engine string, limit int) ([]models.StoredSlate, error) {
	if s.archive == nil {
		return nil, errors.New("slate archive not configured")
	}
	if engine == "" {
		engine = s.opts.PrimaryEngine
	}
	slates, err := s.archive.History(ctx, engine, limit)
	if err != nil {
		return nil, fmt.Errorf("reading slate history: %w", err)
	}
	return slates, nil
}

func (s *PredictionService) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

func (s *PredictionService) observe(engine string, started time.Time, stats models.SlateStats, outcome models.SlateOutcome) {
	attrs := []any{
		"engine", engine,
		"total", stats.TotalFixtures,
		"with_odds", stats.WithOdds,
		"qualifying", stats.Qualifying,
		"selected", stats.Selected,
	}
	switch outcome {
	case models.OutcomeNoQualifyingCandidates:
		slog.Info("No qualifying candidates", attrs...)
	case models.OutcomeBelowMinimum:
		slog.Warn("Too few qualifying candidates", attrs...)
	default:
		slog.Info("Selected picks", attrs...)
	}
	s.metrics.ObserveRun(engine, outcome.String(), started, metrics.Stats{
		Total:      stats.TotalFixtures,
		WithOdds:   stats.WithOdds,
		Qualifying: stats.Qualifying,
		Selected:   stats.Selected,
	})
}

func (s *PredictionService) save(ctx context.Context, slate models.StoredSlate) {
	s.cache.SaveSlate(ctx, slate)
	if s.archive == nil {
		return
	}
	if err := s.archive.SaveSlate(ctx, slate); err != nil {
		slog.Error("Failed to archive slate", "engine", slate.Engine, "error", err)
	}
}

func storedFromPicks(slate models.PickSlate) models.StoredSlate {
	stored := models.StoredSlate{Engine: slate.Engine, Date: slate.Date, Outcome: slate.Outcome, Stats: slate.Stats}
	for i, c := range slate.Picks {
		stored.Picks = append(stored.Picks, models.StoredPick{
			Rank:           i + 1,
			ExternalID:     c.Fixture.ExternalID,
			HomeTeam:       c.Fixture.HomeTeam.Name,
			AwayTeam:       c.Fixture.AwayTeam.Name,
			League:         c.Fixture.Competition.Name,
			KickoffTime:    c.Fixture.KickoffTime,
			Selected:       c.PredictedOutcome,
			WinProbability: c.WinProbability,
			Confidence:     c.Confidence,
		})
	}
	return stored
}

func storedFromScrape(slate models.ScrapeSlate) models.StoredSlate {
	stored := models.StoredSlate{Engine: slate.Engine, Date: slate.Date, Outcome: slate.Outcome, Stats: slate.Stats}
	for i, f := range slate.Picks {
		p := f.WinningPercentage / 100
		stored.Picks = append(stored.Picks, models.StoredPick{
			Rank:           i + 1,
			ExternalID:     f.ID,
			HomeTeam:       f.HomeTeam,
			AwayTeam:       f.AwayTeam,
			League:         f.League,
			KickoffTime:    f.KickoffTime,
			Selected:       f.SelectedTeam,
			WinProbability: p,
			Confidence:     odds.ConfidenceTier(p),
		})
	}
	return stored
}
