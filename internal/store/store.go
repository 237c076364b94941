// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/kakite/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for attempt history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			character TEXT NOT NULL,
			level TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			expected_strokes INTEGER NOT NULL,
			actual_strokes INTEGER NOT NULL,
			score INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			order_correct INTEGER NOT NULL,
			count_match INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_strokes (
			attempt_id INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			direction_match INTEGER NOT NULL,
			spatial_accuracy REAL NOT NULL,
			order_correct INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ended_at ON attempts(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_character ON attempts(character);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempt stores a graded attempt and its per-stroke feedback. An
// empty attempt UUID is generated.
func (s *Store) InsertAttempt(ctx context.Context, a model.Attempt, strokes []model.StrokeStats) (id int64, err error) {
	if a.UUID == "" {
		a.UUID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO attempts (uuid, character, level, started_at, ended_at, expected_strokes, actual_strokes, score, passed, order_correct, count_match, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UUID,
		a.Char,
		a.Level,
		a.StartedAt.UTC().Format(timeLayout),
		a.EndedAt.UTC().Format(timeLayout),
		a.ExpectedStrokes,
		a.ActualStrokes,
		a.Score,
		a.Passed,
		a.OrderCorrect,
		a.CountMatch,
		a.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(strokes) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO attempt_strokes (attempt_id, idx, direction_match, spatial_accuracy, order_correct)
			 VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, st := range strokes {
			if _, err := stmt.ExecContext(ctx, id, st.Index, st.DirectionMatch, st.SpatialAccuracy, st.OrderCorrect); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// charAggregateQuery groups attempts by character. %s is the attempt filter.
const charAggregateQuery = `SELECT a.character, COUNT(*), SUM(a.passed), SUM(a.score), SUM(a.duration_ms),
		COALESCE(SUM(st.strokes), 0), COALESCE(SUM(st.direction_matches), 0), COALESCE(SUM(st.spatial_sum), 0)
	FROM attempts a
	LEFT JOIN (
		SELECT attempt_id, COUNT(*) AS strokes, SUM(direction_match) AS direction_matches,
			SUM(spatial_accuracy) AS spatial_sum
		FROM attempt_strokes
		GROUP BY attempt_id
	) st ON st.attempt_id = a.id
	WHERE %s
	GROUP BY a.character
	ORDER BY a.character`

// GetWeakChars aggregates character stats over the most recent attempts.
func (s *Store) GetWeakChars(ctx context.Context, window int, level string) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := fmt.Sprintf(charAggregateQuery, `a.id IN (
		SELECT id FROM attempts
		WHERE (? = '' OR level = ?)
		ORDER BY ended_at DESC, id DESC
		LIMIT ?
	)`)
	return s.queryCharAggregates(ctx, query, level, level, window)
}

// CharAggregates aggregates per-character stats across the given attempts.
func (s *Store) CharAggregates(ctx context.Context, attemptIDs []int64) ([]model.CharAggregate, error) {
	if len(attemptIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(attemptIDs))
	args := make([]any, len(attemptIDs))
	for i, id := range attemptIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(charAggregateQuery, fmt.Sprintf("a.id IN (%s)", strings.Join(placeholders, ",")))
	return s.queryCharAggregates(ctx, query, args...)
}

func (s *Store) queryCharAggregates(ctx context.Context, query string, args ...any) ([]model.CharAggregate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Attempts, &agg.Passed, &agg.ScoreSum, &agg.DurationMs,
			&agg.Strokes, &agg.DirectionMatches, &agg.SpatialSum); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAttempts returns attempt aggregates filtered by stats config, oldest first.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Level != "" {
		clauses = append(clauses, "level = ?")
		args = append(args, cfg.Level)
	}
	if cfg.Char != "" {
		clauses = append(clauses, "character = ?")
		args = append(args, cfg.Char)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, uuid, character, level, ended_at, score, passed, order_correct, count_match, duration_ms
		FROM attempts
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var endedAt string
		if err := rows.Scan(&agg.AttemptID, &agg.UUID, &agg.Char, &agg.Level, &endedAt, &agg.Score,
			&agg.Passed, &agg.OrderCorrect, &agg.CountMatch, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}
