package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/examprep/backend/internal/models"
)

func TestTopNOrdersByScoreThenEarliest(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	entries := []models.LeaderboardEntry{
		{Username: "a", Score: 5, SubmittedAt: base},
		{Username: "b", Score: 9, SubmittedAt: base.Add(time.Minute)},
		{Username: "c", Score: 9, SubmittedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := store.Append(context.Background(), e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	top, err := store.TopN(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopN() error = %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	// b and c tie on score; b submitted earlier and ranks first.
	if top[0].Username != "b" || top[1].Username != "c" {
		t.Errorf("order = [%s, %s], want [b, c]", top[0].Username, top[1].Username)
	}
}

func TestAppendKeepsRepeatSubmissions(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)

	if err := svc.Submit(context.Background(), "ada", 3); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := svc.Submit(context.Background(), "ada", 8); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	top, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2 (append-only, no overwrite)", len(top))
	}
	if top[0].Score != 8 || top[1].Score != 3 {
		t.Errorf("scores = [%d, %d], want [8, 3]", top[0].Score, top[1].Score)
	}
}

func TestSubmitRejectsBlankUsername(t *testing.T) {
	svc := NewService(NewMemoryStore())
	if err := svc.Submit(context.Background(), "   ", 4); err != ErrInvalidUsername {
		t.Errorf("error = %v, want ErrInvalidUsername", err)
	}
}

func TestTopClampsLimit(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)
	for i := 0; i < 20; i++ {
		if err := svc.Submit(context.Background(), "u", i); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	top, err := svc.Top(context.Background(), 0)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(top) != DefaultTopN {
		t.Errorf("default limit: len = %d, want %d", len(top), DefaultTopN)
	}

	top, err = svc.Top(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(top) != 20 {
		t.Errorf("clamped limit: len = %d, want 20", len(top))
	}
}
