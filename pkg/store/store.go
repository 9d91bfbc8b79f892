// Package store records prediction runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

const DefaultFileName = "nflpool.db"

var (
	//go:embed sql/*
	f embed.FS

	ErrNotFound = errors.New("store: run not found")
)

// Run is the summary of one prediction run.
type Run struct {
	ID          string
	CreatedAt   time.Time
	Season      int
	History     string
	Datasheet   string
	Output      string
	SheetName   string
	WinModel    string
	PointsModel string
	TrainGames  int
	TrainTeams  int
	Predictions []nfl.Prediction
}

// Store wraps the run history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("db path not specified")
	}
	db, err := GetDB(path)
	if err != nil {
		return nil, err
	}
	b, err := f.ReadFile("sql/ddl.sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	slog.Debug("applying db schema", "path", path)
	if _, err := db.ExecContext(ctx, string(b)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func GetDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return conn, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveRun inserts r and its predictions in one transaction. An empty ID
// gets a new UUID, which is returned.
func (s *Store) SaveRun(ctx context.Context, r *Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (
		id, created_at, season, history_path, datasheet_path, output_path,
		sheet_name, win_model, points_model, train_games, train_teams
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.Format(time.RFC3339), r.Season, r.History, r.Datasheet, r.Output,
		r.SheetName, r.WinModel, r.PointsModel, r.TrainGames, r.TrainTeams,
	); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO predictions (
		run_id, position, season, week, home_team, away_team, game_date, day_of_week,
		win_probability, confidence, predicted_points, predicted_points_allowed
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing prediction insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range r.Predictions {
		if _, err := stmt.ExecContext(ctx,
			r.ID, i, p.Season, p.Week, p.Home, p.Away, p.Date, p.DayOfWeek,
			p.WinProbability, p.Confidence, nullFloat(p.PredictedPoints), nullFloat(p.PredictedPointsAllowed),
		); err != nil {
			return "", fmt.Errorf("inserting prediction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return r.ID, nil
}

// ListRuns returns the newest runs first, without predictions.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, created_at, season, history_path, datasheet_path, output_path,
		sheet_name, win_model, points_model, train_games, train_teams
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun returns one run with its predictions.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT
		id, created_at, season, history_path, datasheet_path, output_path,
		sheet_name, win_model, points_model, train_games, train_teams
		FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		season, week, home_team, away_team, game_date, day_of_week,
		win_probability, confidence, predicted_points, predicted_points_allowed
		FROM predictions WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p      nfl.Prediction
			pts    sql.NullFloat64
			ptsAll sql.NullFloat64
		)
		if err := rows.Scan(&p.Season, &p.Week, &p.Home, &p.Away, &p.Date, &p.DayOfWeek,
			&p.WinProbability, &p.Confidence, &pts, &ptsAll); err != nil {
			return nil, fmt.Errorf("scanning prediction: %w", err)
		}
		p.PredictedPoints = fromNull(pts)
		p.PredictedPointsAllowed = fromNull(ptsAll)
		r.Predictions = append(r.Predictions, p)
	}
	return r, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		r       Run
		created string
	)
	if err := s.Scan(&r.ID, &created, &r.Season, &r.History, &r.Datasheet, &r.Output,
		&r.SheetName, &r.WinModel, &r.PointsModel, &r.TrainGames, &r.TrainTeams); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("parsing run time %q: %w", created, err)
	}
	r.CreatedAt = t
	return &r, nil
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
