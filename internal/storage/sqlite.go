// Package storage provides SQLite-based persistence for the arena leaderboard.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/snake-arena/internal/session"
)

// DefaultTopN is the size of the leaderboard a score has to beat.
const DefaultTopN = 10

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db   *sql.DB
	topN int
}

// ScoreEntry represents a single leaderboard record.
type ScoreEntry struct {
	ID         int64
	PlayerName string
	Score      int
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer keeps the check-then-insert in RecordScore consistent.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, topN: DefaultTopN}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS high_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_name TEXT NOT NULL,
			score INTEGER NOT NULL,
			date TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_high_scores_score ON high_scores(score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SetTopN changes the leaderboard size. Values below 1 are ignored.
func (s *Store) SetTopN(n int) {
	if n > 0 {
		s.topN = n
	}
}

// TopN returns the leaderboard size.
func (s *Store) TopN() int {
	return s.topN
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordScore stores a finished round if it makes the leaderboard: the
// table holds fewer than TopN rows, or score beats the lowest of the
// current top N. Returns whether the score was stored.
func (s *Store) RecordScore(playerName string, score int) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM high_scores").Scan(&count); err != nil {
		return false, fmt.Errorf("storage: cannot count scores: %w", err)
	}

	if count >= s.topN {
		var lowest sql.NullInt64
		err := tx.QueryRow(
			`SELECT MIN(score) FROM (
				SELECT score FROM high_scores ORDER BY score DESC, id ASC LIMIT ?
			)`,
			s.topN,
		).Scan(&lowest)
		if err != nil {
			return false, fmt.Errorf("storage: cannot query lowest top score: %w", err)
		}
		if lowest.Valid && int64(score) <= lowest.Int64 {
			return false, nil
		}
	}

	_, err = tx.Exec(
		"INSERT INTO high_scores (player_name, score, date) VALUES (?, ?, ?)",
		playerName, score, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot save score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return true, nil
}

// TopScores retrieves the best scores, highest first. Ties keep
// insertion order. A limit <= 0 means TopN.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = s.topN
	}

	rows, err := s.db.Query(
		`SELECT id, player_name, score, date
		 FROM high_scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var date string
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Score, &date); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, date); err == nil {
			e.CreatedAt = parsed
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best score ever recorded, or 0 when empty.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM high_scores").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// Count returns the number of stored scores.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM high_scores").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count scores: %w", err)
	}
	return n, nil
}

// Clear deletes every stored score.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM high_scores")
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Leaderboard implements session.ScoreKeeper.
// This adapter lets the session layer read scores without a storage dependency.
func (s *Store) Leaderboard(limit int) ([]session.LeaderboardEntry, error) {
	if s == nil {
		return nil, errors.New("storage: store is not open")
	}
	entries, err := s.TopScores(limit)
	if err != nil {
		return nil, err
	}

	out := make([]session.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, session.LeaderboardEntry{
			PlayerName: e.PlayerName,
			Score:      e.Score,
			Date:       e.CreatedAt,
		})
	}
	return out, nil
}

// Ensure Store implements ScoreKeeper
var _ session.ScoreKeeper = (*Store)(nil)
