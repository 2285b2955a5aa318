package quiz

import (
	"context"

	"github.com/examprep/backend/internal/models"
)

// Source supplies questions for one loading cycle of a session. The
// engine treats it as opaque; order of the returned questions is up to
// the implementation.
type Source interface {
	Fetch(ctx context.Context, topic string, difficulty models.Difficulty, limit int, excludeIDs []int64) ([]models.Question, error)
}
