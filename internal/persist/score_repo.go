package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScoreRow is one finished game session.
type ScoreRow struct {
	ID        int64
	SessionID uuid.UUID
	Player    string
	Level     string
	Score     int
	Asteroids int
	Frames    uint64
	Duration  time.Duration
	CreatedAt time.Time
}

type ScoreRepo struct {
	db *DB
}

func NewScoreRepo(db *DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// Insert records a session. Re-recording the same session id updates it.
func (r *ScoreRepo) Insert(ctx context.Context, s *ScoreRow) error {
	if s.SessionID == uuid.Nil {
		s.SessionID = uuid.New()
	}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO scores (session_id, player, level, score, asteroids, frames, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (session_id) DO UPDATE SET
		   score = EXCLUDED.score, asteroids = EXCLUDED.asteroids,
		   frames = EXCLUDED.frames, duration_ms = EXCLUDED.duration_ms
		 RETURNING id, created_at`,
		s.SessionID, s.Player, s.Level, s.Score, s.Asteroids, int64(s.Frames), s.Duration.Milliseconds(),
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// Top returns the best scores, highest first.
func (r *ScoreRepo) Top(ctx context.Context, limit int) ([]ScoreRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, session_id, player, level, score, asteroids, frames, duration_ms, created_at
		 FROM scores ORDER BY score DESC, created_at ASC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var s ScoreRow
		var frames, ms int64
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Player, &s.Level, &s.Score, &s.Asteroids, &frames, &ms, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		s.Frames = uint64(frames)
		s.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, s)
	}
	return out, rows.Err()
}

// Best returns the player's highest score, or 0 if they have none.
func (r *ScoreRepo) Best(ctx context.Context, player string) (int, error) {
	var best int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(score), 0) FROM scores WHERE player = $1`, player,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("best score %s: %w", player, err)
	}
	return best, nil
}
