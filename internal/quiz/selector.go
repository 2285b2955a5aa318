package quiz

import (
	"context"
	"fmt"

	"github.com/examprep/backend/internal/models"
)

// hardUnlockAccuracy is the rolling topic accuracy above which premium
// users graduate to hard questions.
const hardUnlockAccuracy = 80

// AccuracyReader is the slice of the progress store the selector needs.
type AccuracyReader interface {
	TopicAccuracy(ctx context.Context, userID int64, topic string) (int, error)
}

// Selector picks the difficulty pool for a user and topic. The decision
// is a strict branch on tier and accuracy with no randomness; only the
// order of questions inside the pool is up to the source.
type Selector struct {
	progress AccuracyReader
}

func NewSelector(progress AccuracyReader) *Selector {
	return &Selector{progress: progress}
}

// ChooseDifficulty applies the tier/accuracy policy: free users always
// get medium; premium users get hard once their accuracy in the topic
// exceeds the unlock threshold, medium otherwise.
func ChooseDifficulty(user *models.User, topicAccuracy int) models.Difficulty {
	if user.IsPremium() && topicAccuracy > hardUnlockAccuracy {
		return models.DifficultyHard
	}
	return models.DifficultyMedium
}

// SelectPool fetches up to limit questions of the user's difficulty from
// the given source. An empty result is ErrNoQuestionsAvailable; the
// caller decides whether to fall back to a secondary source; a failing
// source is ErrFetchFailed. The selector never retries.
func (s *Selector) SelectPool(ctx context.Context, src Source, user *models.User, topic string, limit int, excludeIDs []int64) ([]models.Question, error) {
	accuracy, err := s.progress.TopicAccuracy(ctx, user.ID, topic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	difficulty := ChooseDifficulty(user, accuracy)
	questions, err := src.Fetch(ctx, topic, difficulty, limit, excludeIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	return questions, nil
}
