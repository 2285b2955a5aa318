package badges

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/examprep/backend/internal/models"
)

// PGStore implements Store on Postgres. Each primitive is a single
// conditional statement, never a count-then-write, so concurrent
// assignments arbitrate through the database rather than racing.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) BeginDecision(ctx context.Context, userID int64, bracket models.Tier) (bool, *string, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO badge_grants (user_id, bracket) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, bracket)
	if err != nil {
		return false, nil, fmt.Errorf("insert badge decision: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return true, nil, nil
	}

	var badge *string
	var recorded models.Tier
	err = s.db.QueryRowContext(ctx,
		`SELECT badge, bracket FROM badge_grants WHERE user_id = $1`,
		userID,
	).Scan(&badge, &recorded)
	if err != nil {
		return false, nil, fmt.Errorf("read badge decision: %w", err)
	}
	if badge != nil || recorded == bracket {
		return false, badge, nil
	}

	// No badge was granted in the old bracket; reopen for the new one.
	// The conditional update makes sure only one caller wins when two
	// devices upgrade the same user at once.
	res, err = s.db.ExecContext(ctx,
		`UPDATE badge_grants SET bracket = $2, decided_at = NOW()
		 WHERE user_id = $1 AND badge IS NULL AND bracket <> $2`,
		userID, bracket)
	if err != nil {
		return false, nil, fmt.Errorf("reopen badge decision: %w", err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil, nil
}

func (s *PGStore) ClaimSlot(ctx context.Context, counter string) (int, bool, error) {
	var granted int
	err := s.db.QueryRowContext(ctx,
		`UPDATE badge_counters SET granted = granted + 1
		 WHERE name = $1 AND granted < cap
		 RETURNING granted`,
		counter,
	).Scan(&granted)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("claim badge slot: %w", err)
	}
	return granted - 1, true, nil
}

func (s *PGStore) FinishDecision(ctx context.Context, userID int64, badge *string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE badge_grants SET badge = $2, decided_at = NOW() WHERE user_id = $1`,
		userID, badge); err != nil {
		return fmt.Errorf("record badge decision: %w", err)
	}
	if badge != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE users SET badge = $2 WHERE id = $1`,
			userID, *badge); err != nil {
			return fmt.Errorf("mirror badge to user: %w", err)
		}
	}
	return nil
}
