package ingest

import (
	"testing"

	"github.com/examprep/backend/internal/models"
)

const sampleSheet = `1. What is the capital of France?
A. Berlin
B. Paris
C. Madrid
D. Rome
Answer: B

2. Which planet is known as the red planet?
A. Venus
B. Mars
C. Jupiter
D. Saturn
Answer: Mars

3. This block has no options at all
Answer: B
`

func TestParseSampleSheet(t *testing.T) {
	questions, skipped := Parse(sampleSheet, "geography", models.DifficultyMedium)

	if len(questions) != 2 {
		t.Fatalf("parsed %d questions, want 2", len(questions))
	}
	if len(skipped) != 1 {
		t.Fatalf("skipped %d blocks, want 1", len(skipped))
	}

	q := questions[0]
	if q.Prompt != "What is the capital of France?" {
		t.Errorf("prompt = %q", q.Prompt)
	}
	if len(q.Options) != 4 {
		t.Fatalf("options = %d, want 4", len(q.Options))
	}
	if q.Answer != "Paris" {
		t.Errorf("letter answer resolved to %q, want Paris", q.Answer)
	}
	if q.Topic != "geography" || q.Difficulty != models.DifficultyMedium {
		t.Errorf("topic/difficulty not stamped: %q/%q", q.Topic, q.Difficulty)
	}

	// Second block spells the answer out instead of using a letter.
	if questions[1].Answer != "Mars" {
		t.Errorf("text answer resolved to %q, want Mars", questions[1].Answer)
	}

	if skipped[0].Block != 3 || skipped[0].Reason != "fewer than two options" {
		t.Errorf("skipped = %+v", skipped[0])
	}
}

func TestParseMultiLinePrompt(t *testing.T) {
	text := `1. A question whose prompt
continues on a second line?
A. yes
B. no
Answer: A`

	questions, skipped := Parse(text, "misc", models.DifficultyEasy)
	if len(skipped) != 0 {
		t.Fatalf("skipped = %+v", skipped)
	}
	if len(questions) != 1 {
		t.Fatalf("parsed %d questions, want 1", len(questions))
	}
	want := "A question whose prompt continues on a second line?"
	if questions[0].Prompt != want {
		t.Errorf("prompt = %q, want %q", questions[0].Prompt, want)
	}
}

func TestParseUnmatchedAnswerSkipsBlock(t *testing.T) {
	text := `1. Pick one
A. first
B. second
Answer: E`

	questions, skipped := Parse(text, "misc", models.DifficultyMedium)
	if len(questions) != 0 {
		t.Fatalf("parsed %d questions, want 0", len(questions))
	}
	if len(skipped) != 1 || skipped[0].Reason != "missing or unmatched answer" {
		t.Fatalf("skipped = %+v", skipped)
	}
}

func TestParseEmptyText(t *testing.T) {
	questions, skipped := Parse("", "misc", models.DifficultyMedium)
	if len(questions) != 0 || len(skipped) != 0 {
		t.Errorf("parsed %d, skipped %d; want 0, 0", len(questions), len(skipped))
	}
}
