package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// Question is an ingested MCQ. Records are immutable after ingestion and
// never deleted. Answer equals one of Options, enforced when the question
// is ingested, not on read.
type Question struct {
	ID          int64      `json:"id"`
	Topic       string     `json:"topic"`
	Difficulty  Difficulty `json:"difficulty"`
	Prompt      string     `json:"prompt"`
	Options     []string   `json:"options"`
	Answer      string     `json:"answer"`
	Explanation string     `json:"explanation,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ServedQuestion is a question stripped of its answer and explanation
// for serving inside an active session.
type ServedQuestion struct {
	ID      int64    `json:"id"`
	Topic   string   `json:"topic"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

func (q *Question) Serve() ServedQuestion {
	return ServedQuestion{
		ID:      q.ID,
		Topic:   q.Topic,
		Prompt:  q.Prompt,
		Options: q.Options,
	}
}

// ── Ingestion Types ───────────────────────────────────────

type IngestRequest struct {
	// Raw MCQ text in the numbered format produced by the OCR pipeline.
	Text string `json:"text"`
	// Document reference to run through OCR instead of supplying Text.
	DocumentRef string     `json:"document_ref,omitempty"`
	Topic       string     `json:"topic"`
	Difficulty  Difficulty `json:"difficulty"`
}

type IngestResponse struct {
	Parsed   int      `json:"parsed"`
	Ingested int      `json:"ingested"`
	Skipped  []string `json:"skipped,omitempty"`
}
