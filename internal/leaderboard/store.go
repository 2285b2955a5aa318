package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/examprep/backend/internal/models"
)

// Store is append-only: entries are never updated or deleted, a player
// appears once per submitted score.
type Store interface {
	Append(ctx context.Context, entry models.LeaderboardEntry) error
	TopN(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
}

// PGStore persists entries in Postgres.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Append(ctx context.Context, entry models.LeaderboardEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leaderboard_entries (username, score, submitted_at) VALUES ($1, $2, $3)`,
		entry.Username, entry.Score, entry.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("appending leaderboard entry: %w", err)
	}
	return nil
}

// TopN returns the n highest scores, ties broken by earliest submission.
func (s *PGStore) TopN(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, score, submitted_at
		 FROM leaderboard_entries
		 ORDER BY score DESC, submitted_at ASC, id ASC
		 LIMIT $1`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Score, &e.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scanning leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MemoryStore keeps entries in process memory. Used by tests and by
// deployments running without a database.
type MemoryStore struct {
	mu      sync.Mutex
	entries []models.LeaderboardEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Append(ctx context.Context, entry models.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = s.now()
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) TopN(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]models.LeaderboardEntry, len(s.entries))
	copy(sorted, s.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted, nil
}
