package quiz

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/examprep/backend/internal/models"
)

// Store is the primary question repository on Postgres. Questions are
// immutable once ingested and are never deleted.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InsertQuestions persists a batch of ingested questions with their
// options. The "answer equals one option" invariant is enforced here,
// at ingestion time.
func (s *Store) InsertQuestions(ctx context.Context, questions []models.Question) ([]int64, error) {
	for i := range questions {
		if err := validateQuestion(&questions[i]); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert questions: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO questions (topic, difficulty, prompt, answer, explanation)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			q.Topic, q.Difficulty, q.Prompt, q.Answer, nullable(q.Explanation),
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("insert question: %w", err)
		}
		for pos, opt := range q.Options {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO question_options (question_id, position, option_text)
				 VALUES ($1, $2, $3)`,
				id, pos, opt); err != nil {
				return nil, fmt.Errorf("insert option: %w", err)
			}
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert questions: %w", err)
	}
	return ids, nil
}

func validateQuestion(q *models.Question) error {
	if q.Prompt == "" || q.Topic == "" {
		return fmt.Errorf("%w: question needs a prompt and a topic", ErrInvalidInput)
	}
	if !models.ValidDifficulties[q.Difficulty] {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, q.Difficulty)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question needs at least two options", ErrInvalidInput)
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return nil
		}
	}
	return fmt.Errorf("%w: answer does not match any option", ErrInvalidInput)
}

// Fetch implements Source. Questions come back in random order; callers
// that need stable ordering must impose it themselves.
func (s *Store) Fetch(ctx context.Context, topic string, difficulty models.Difficulty, limit int, excludeIDs []int64) ([]models.Question, error) {
	if excludeIDs == nil {
		excludeIDs = []int64{}
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, difficulty, prompt, answer, COALESCE(explanation, ''), created_at
		 FROM questions
		 WHERE topic = $1 AND difficulty = $2 AND id <> ALL($3)
		 ORDER BY random()
		 LIMIT $4`,
		topic, difficulty, pq.Array(excludeIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Topic, &q.Difficulty, &q.Prompt, &q.Answer, &q.Explanation, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range questions {
		opts, err := s.optionsFor(ctx, questions[i].ID)
		if err != nil {
			return nil, err
		}
		questions[i].Options = opts
	}
	return questions, nil
}

func (s *Store) optionsFor(ctx context.Context, questionID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT option_text FROM question_options WHERE question_id = $1 ORDER BY position`,
		questionID)
	if err != nil {
		return nil, fmt.Errorf("fetch options: %w", err)
	}
	defer rows.Close()

	var options []string
	for rows.Next() {
		var opt string
		if err := rows.Scan(&opt); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// GetQuestion returns one question with its options.
func (s *Store) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	var q models.Question
	err := s.db.QueryRowContext(ctx,
		`SELECT id, topic, difficulty, prompt, answer, COALESCE(explanation, ''), created_at
		 FROM questions WHERE id = $1`,
		id,
	).Scan(&q.ID, &q.Topic, &q.Difficulty, &q.Prompt, &q.Answer, &q.Explanation, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: question %d", ErrInvalidInput, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	opts, err := s.optionsFor(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.Options = opts
	return &q, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
