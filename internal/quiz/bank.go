package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/examprep/backend/internal/models"
)

// Bank is a local SQLite question bank used as the secondary source when
// the primary store has no questions for a topic/difficulty. It mirrors
// the mobile app's bundled mcqs.db: options are stored JSON-encoded in a
// single column.
type Bank struct {
	db *sql.DB
}

// OpenBank opens (or creates) a bank file. Use ":memory:" in tests.
func OpenBank(path string) (*Bank, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping question bank: %w", err)
	}
	b := &Bank{db: db}
	if err := b.ensureSchema(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bank) Close() error {
	return b.db.Close()
}

func (b *Bank) ensureSchema() error {
	_, err := b.db.Exec(`
		CREATE TABLE IF NOT EXISTS mcqs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			topic       TEXT NOT NULL,
			difficulty  TEXT NOT NULL,
			question    TEXT NOT NULL,
			options     TEXT NOT NULL,
			answer      TEXT NOT NULL,
			explanation TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_mcqs_topic ON mcqs(topic, difficulty);
	`)
	if err != nil {
		return fmt.Errorf("init question bank schema: %w", err)
	}
	return nil
}

// SaveQuestions adds questions to the bank. Used by bank-building
// tooling and tests; the serving path only reads.
func (b *Bank) SaveQuestions(ctx context.Context, questions []models.Question) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bank save: %w", err)
	}
	defer tx.Rollback()

	for i := range questions {
		q := &questions[i]
		if err := validateQuestion(q); err != nil {
			return err
		}
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mcqs (topic, difficulty, question, options, answer, explanation)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			q.Topic, q.Difficulty, q.Prompt, string(opts), q.Answer, q.Explanation); err != nil {
			return fmt.Errorf("save mcq: %w", err)
		}
	}
	return tx.Commit()
}

// Fetch implements Source over the local bank.
func (b *Bank) Fetch(ctx context.Context, topic string, difficulty models.Difficulty, limit int, excludeIDs []int64) ([]models.Question, error) {
	query := `SELECT id, topic, difficulty, question, options, answer, COALESCE(explanation, '')
		 FROM mcqs WHERE topic = ? AND difficulty = ?`
	args := []interface{}{topic, string(difficulty)}
	if len(excludeIDs) > 0 {
		query += ` AND id NOT IN (?` + strings.Repeat(",?", len(excludeIDs)-1) + `)`
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}
	query += ` ORDER BY RANDOM() LIMIT ?`
	args = append(args, limit)

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch from bank: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var optsJSON string
		if err := rows.Scan(&q.ID, &q.Topic, &q.Difficulty, &q.Prompt, &optsJSON, &q.Answer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scan bank mcq: %w", err)
		}
		if err := json.Unmarshal([]byte(optsJSON), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
