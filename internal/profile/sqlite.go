package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	keyPlayerName = "player_name"
	keyHighScore  = "high_score"
)

// SQLiteStore persists the profile in a SQLite database: a kv table for the
// player name and high score, and a results table for history.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the database at path and runs the schema
// migration.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			pairs INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) PlayerName(ctx context.Context) (string, error) {
	name, _, err := s.get(ctx, keyPlayerName)
	return name, err
}

func (s *SQLiteStore) SetPlayerName(ctx context.Context, name string) error {
	return s.set(ctx, keyPlayerName, name)
}

func (s *SQLiteStore) HighScore(ctx context.Context) (int, error) {
	raw, ok, err := s.get(ctx, keyHighScore)
	if err != nil || !ok {
		return 0, err
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse high score %q: %w", raw, err)
	}
	return score, nil
}

func (s *SQLiteStore) SetHighScore(ctx context.Context, score int) error {
	return s.set(ctx, keyHighScore, strconv.Itoa(score))
}

func (s *SQLiteStore) RecordResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (player, score, moves, pairs, elapsed_ms, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Player, r.Score, r.Moves, r.Pairs, r.Elapsed.Milliseconds(),
		r.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentResults(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, score, moves, pairs, elapsed_ms, finished_at
		 FROM results ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Result
	for rows.Next() {
		var (
			r         Result
			elapsedMs int64
			at        string
		)
		if err := rows.Scan(&r.Player, &r.Score, &r.Moves, &r.Pairs, &elapsedMs, &at); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		r.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", at, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
