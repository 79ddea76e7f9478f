// Package sqlite keeps the history of daily slates in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/omarshaarawi/hapdaily/internal/models"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

var openDB = sql.Open

type Storage struct {
	db *sql.DB
}

// New opens or creates the database at dbPath. An empty dbPath defaults to
// $TMPDIR/hapdaily/picks.db.
func New(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "hapdaily", "picks.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &Storage{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) init() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := s.db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := s.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS slates (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			engine          TEXT NOT NULL,
			pick_date       TEXT NOT NULL,
			outcome         INTEGER NOT NULL,
			total_fixtures  INTEGER NOT NULL,
			with_odds       INTEGER NOT NULL,
			qualifying      INTEGER NOT NULL,
			selected        INTEGER NOT NULL,
			created_at      INTEGER NOT NULL,
			UNIQUE (engine, pick_date)
		)`,
		`CREATE TABLE IF NOT EXISTS daily_picks (
			slate_id         INTEGER NOT NULL REFERENCES slates(id) ON DELETE CASCADE,
			rank_order       INTEGER NOT NULL,
			fixture_id       TEXT NOT NULL,
			pick_date        TEXT NOT NULL,
			home_team        TEXT NOT NULL,
			away_team        TEXT NOT NULL,
			league           TEXT NOT NULL,
			kickoff_time     INTEGER NOT NULL,
			selected_team    INTEGER NOT NULL,
			win_probability  REAL NOT NULL,
			confidence_level TEXT NOT NULL,
			PRIMARY KEY (slate_id, rank_order)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_slates_engine_date ON slates(engine, pick_date DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSlate stores a slate, replacing any earlier slate for the same engine and day.
func (s *Storage) SaveSlate(ctx context.Context, slate models.StoredSlate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	day := slate.Date.UTC().Format(dateLayout)
	if _, err := tx.ExecContext(ctx, `DELETE FROM slates WHERE engine = ? AND pick_date = ?`, slate.Engine, day); err != nil {
		return fmt.Errorf("failed to replace slate: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO slates
			(engine, pick_date, outcome, total_fixtures, with_odds, qualifying, selected, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		slate.Engine, day, int(slate.Outcome),
		slate.Stats.TotalFixtures, slate.Stats.WithOdds, slate.Stats.Qualifying, slate.Stats.Selected,
		time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert slate: %w", err)
	}
	slateID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read slate id: %w", err)
	}

	for _, p := range slate.Picks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_picks
				(slate_id, rank_order, fixture_id, pick_date, home_team, away_team, league,
				 kickoff_time, selected_team, win_probability, confidence_level)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			slateID, p.Rank, p.ExternalID, day, p.HomeTeam, p.AwayTeam, p.League,
			p.KickoffTime.UnixNano(), int(p.Selected), p.WinProbability, p.Confidence.String(),
		); err != nil {
			return fmt.Errorf("failed to insert pick %d: %w", p.Rank, err)
		}
	}
	return tx.Commit()
}

// LatestSlate returns the most recent slate stored for engine.
func (s *Storage) LatestSlate(ctx context.Context, engine string) (models.StoredSlate, bool, error) {
	slates, err := s.History(ctx, engine, 1)
	if err != nil {
		return models.StoredSlate{}, false, err
	}
	if len(slates) == 0 {
		return models.StoredSlate{}, false, nil
	}
	return slates[0], true, nil
}

// History returns up to limit slates for engine, newest first.
func (s *Storage) History(ctx context.Context, engine string, limit int) ([]models.StoredSlate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pick_date, outcome, total_fixtures, with_odds, qualifying, selected
		FROM slates WHERE engine = ?
		ORDER BY pick_date DESC, created_at DESC
		LIMIT ?`, engine, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query slates: %w", err)
	}

	type row struct {
		id    int64
		slate models.StoredSlate
	}
	var found []row
	for rows.Next() {
		var (
			r       row
			day     string
			outcome int
		)
		if err := rows.Scan(&r.id, &day, &outcome, &r.slate.Stats.TotalFixtures, &r.slate.Stats.WithOdds,
			&r.slate.Stats.Qualifying, &r.slate.Stats.Selected); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan slate: %w", err)
		}
		date, err := time.Parse(dateLayout, day)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("invalid slate date %q: %w", day, err)
		}
		r.slate.Engine = engine
		r.slate.Date = date
		r.slate.Outcome = models.SlateOutcome(outcome)
		found = append(found, r)
	}
	if err := errors.Join(rows.Err(), rows.Close()); err != nil {
		return nil, fmt.Errorf("failed to read slates: %w", err)
	}

	slates := make([]models.StoredSlate, 0, len(found))
	for _, r := range found {
		picks, err := s.picks(ctx, r.id)
		if err != nil {
			return nil, err
		}
		r.slate.Picks = picks
		slates = append(slates, r.slate)
	}
	return slates, nil
}

func (s *Storage) picks(ctx context.Context, slateID int64) ([]models.StoredPick, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rank_order, fixture_id, home_team, away_team, league, kickoff_time,
		       selected_team, win_probability, confidence_level
		FROM daily_picks WHERE slate_id = ?
		ORDER BY rank_order`, slateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	var picks []models.StoredPick
	for rows.Next() {
		var (
			p          models.StoredPick
			kickoff    int64
			selected   int
			confidence string
		)
		if err := rows.Scan(&p.Rank, &p.ExternalID, &p.HomeTeam, &p.AwayTeam, &p.League, &kickoff,
			&selected, &p.WinProbability, &confidence); err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		p.KickoffTime = time.Unix(0, kickoff).UTC()
		p.Selected = models.Outcome(selected)
		p.Confidence = models.ParseConfidenceTier(confidence)
		picks = append(picks, p)
	}
	return picks, rows.Err()
}
