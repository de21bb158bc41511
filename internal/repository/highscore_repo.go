package repository

import (
	"context"
	"database/sql"
	"fmt"
	"quizarena/internal/model"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// HighScoreRepo is the local best-effort high-score list, kept in SQLite
type HighScoreRepo struct {
	db *sql.DB
}

// NewHighScoreRepo opens (or creates) the database at path and runs migrations
func NewHighScoreRepo(path string) (*HighScoreRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	r := &HighScoreRepo{db: db}
	if err := r.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *HighScoreRepo) Close() error { return r.db.Close() }

// Migrate creates the schema
func (r *HighScoreRepo) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS high_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			tier INTEGER NOT NULL,
			achieved_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_high_scores_rank ON high_scores(score DESC, achieved_at ASC)`,
	}
	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Add inserts an entry and drops everything below the best keep entries
func (r *HighScoreRepo) Add(ctx context.Context, entry model.HighScore, keep int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO high_scores (name, score, tier, achieved_at) VALUES (?, ?, ?, ?)`,
		entry.Name, entry.Score, int(entry.Tier), entry.AchievedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert high score: %w", err)
	}

	if keep > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM high_scores WHERE id NOT IN (
				SELECT id FROM high_scores ORDER BY score DESC, achieved_at ASC LIMIT ?
			)`, keep)
		if err != nil {
			return fmt.Errorf("trim high scores: %w", err)
		}
	}
	return tx.Commit()
}

// Top returns the best entries, ties broken by who got there first
func (r *HighScoreRepo) Top(ctx context.Context, limit int) ([]model.HighScore, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, score, tier, achieved_at FROM high_scores ORDER BY score DESC, achieved_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HighScore
	for rows.Next() {
		var (
			hs     model.HighScore
			tier   int
			millis int64
		)
		if err := rows.Scan(&hs.Name, &hs.Score, &tier, &millis); err != nil {
			return nil, err
		}
		hs.Tier = model.Tier(tier)
		hs.AchievedAt = time.UnixMilli(millis).UTC()
		out = append(out, hs)
	}
	return out, rows.Err()
}
