package leaderboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/examprep/backend/internal/models"
)

var ErrInvalidUsername = errors.New("invalid username")

const (
	// DefaultTopN matches the size the mobile client renders.
	DefaultTopN = 10
	MaxTopN     = 100
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Submit appends one score under the given display name. Repeat
// submissions create new entries; nothing is overwritten.
func (s *Service) Submit(ctx context.Context, username string, score int) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrInvalidUsername
	}
	return s.store.Append(ctx, models.LeaderboardEntry{
		Username:    username,
		Score:       score,
		SubmittedAt: s.now().UTC(),
	})
}

// Top returns the top n entries, clamping n into [1, MaxTopN] and
// defaulting when the caller passes nothing useful.
func (s *Service) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	if n > MaxTopN {
		n = MaxTopN
	}
	return s.store.TopN(ctx, n)
}
