package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/examprep/backend/internal/models"
)

type fakeAccuracy struct {
	accuracy int
	err      error
}

func (f *fakeAccuracy) TopicAccuracy(_ context.Context, _ int64, _ string) (int, error) {
	return f.accuracy, f.err
}

type fakeSource struct {
	questions []models.Question
	err       error

	fetchCalls     int
	lastDifficulty models.Difficulty
	lastLimit      int
	lastExclude    []int64
}

func (f *fakeSource) Fetch(_ context.Context, _ string, difficulty models.Difficulty, limit int, excludeIDs []int64) ([]models.Question, error) {
	f.fetchCalls++
	f.lastDifficulty = difficulty
	f.lastLimit = limit
	f.lastExclude = excludeIDs
	if f.err != nil {
		return nil, f.err
	}
	out := f.questions
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func freeUser() *models.User {
	return &models.User{ID: 1, Tier: models.TierFree}
}

func premiumUser() *models.User {
	return &models.User{ID: 2, Tier: models.TierPremium}
}

func TestChooseDifficulty(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		accuracy int
		want     models.Difficulty
	}{
		{"free with no history", freeUser(), 0, models.DifficultyMedium},
		{"free with perfect accuracy never gets hard", freeUser(), 100, models.DifficultyMedium},
		{"premium below threshold", premiumUser(), 80, models.DifficultyMedium},
		{"premium just above threshold", premiumUser(), 81, models.DifficultyHard},
		{"premium with no history", premiumUser(), 0, models.DifficultyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChooseDifficulty(tt.user, tt.accuracy); got != tt.want {
				t.Errorf("ChooseDifficulty() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectPoolUsesChosenDifficulty(t *testing.T) {
	src := &fakeSource{questions: []models.Question{{ID: 1, Answer: "a", Options: []string{"a", "b"}}}}
	s := NewSelector(&fakeAccuracy{accuracy: 90})

	if _, err := s.SelectPool(context.Background(), src, premiumUser(), "algebra", 5, nil); err != nil {
		t.Fatalf("SelectPool() error = %v", err)
	}
	if src.lastDifficulty != models.DifficultyHard {
		t.Errorf("fetched difficulty = %q, want %q", src.lastDifficulty, models.DifficultyHard)
	}

	if _, err := s.SelectPool(context.Background(), src, freeUser(), "algebra", 5, nil); err != nil {
		t.Fatalf("SelectPool() error = %v", err)
	}
	if src.lastDifficulty != models.DifficultyMedium {
		t.Errorf("fetched difficulty = %q, want %q", src.lastDifficulty, models.DifficultyMedium)
	}
}

func TestSelectPoolEmptySource(t *testing.T) {
	s := NewSelector(&fakeAccuracy{})
	_, err := s.SelectPool(context.Background(), &fakeSource{}, freeUser(), "algebra", 5, nil)
	if !errors.Is(err, ErrNoQuestionsAvailable) {
		t.Errorf("error = %v, want ErrNoQuestionsAvailable", err)
	}
}

func TestSelectPoolFailingSource(t *testing.T) {
	s := NewSelector(&fakeAccuracy{})
	src := &fakeSource{err: errors.New("connection refused")}
	_, err := s.SelectPool(context.Background(), src, freeUser(), "algebra", 5, nil)
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("error = %v, want ErrFetchFailed", err)
	}
	if src.fetchCalls != 1 {
		t.Errorf("fetchCalls = %d, want 1 (no retries)", src.fetchCalls)
	}
}

func TestSelectPoolAccuracyLookupFailure(t *testing.T) {
	s := NewSelector(&fakeAccuracy{err: errors.New("db down")})
	src := &fakeSource{}
	_, err := s.SelectPool(context.Background(), src, freeUser(), "algebra", 5, nil)
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("error = %v, want ErrFetchFailed", err)
	}
	if src.fetchCalls != 0 {
		t.Errorf("fetchCalls = %d, want 0", src.fetchCalls)
	}
}
