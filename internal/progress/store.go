package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/examprep/backend/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// Store owns all mutation of per-user progress counters and quiz
// analytics. Counter updates are expressed as single atomic SQL
// statements so concurrent answers from two devices never lose updates.
type Store struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

func NewStore(db *sql.DB, loc *time.Location) *Store {
	return &Store{db: db, loc: loc, now: time.Now}
}

const userColumns = `id, email, role, tier, badge, join_date,
		        quizzes_completed, daily_question_count, last_question_date, total_time_spent_seconds`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.Tier, &u.Badge, &u.JoinDate,
		&u.Progress.QuizzesCompleted, &u.Progress.DailyQuestionCount,
		&u.Progress.LastQuestionDate, &u.Progress.TotalTimeSpentSeconds)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// GetUserByEmail returns the user record plus the stored password hash.
// Used by the login path only.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var u models.User
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`, password FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.Role, &u.Tier, &u.Badge, &u.JoinDate,
		&u.Progress.QuizzesCompleted, &u.Progress.DailyQuestionCount,
		&u.Progress.LastQuestionDate, &u.Progress.TotalTimeSpentSeconds, &hash)
	if err == sql.ErrNoRows {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}
	return &u, hash, nil
}

// InitUser creates a fresh user record with zeroed counters and the free
// tier. Fails with ErrUserExists when the email is already registered.
func (s *Store) InitUser(ctx context.Context, email, passwordHash string, role models.Role) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password, role, tier)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		email, passwordHash, role, models.TierFree)
	user, err := scanUser(row)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("init user: %w", err)
	}
	return user, nil
}

// RecordAnswer applies one answered question as a logically atomic update:
// day-boundary reset + daily counter increment + time accumulator on the
// user row in one statement, then the append-only time log and the topic
// accuracy counters, all inside one transaction.
//
// Topic accuracy is a cumulative percentage: per (user, topic) the store
// keeps answered/correct tallies and reports round(100*correct/answered).
func (s *Store) RecordAnswer(ctx context.Context, userID, questionID int64, timeSpentSeconds int, topic string, correct bool) error {
	today := dayKey(s.now(), s.loc)
	correctInc := 0
	if correct {
		correctInc = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record answer: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET
		    daily_question_count = CASE
		        WHEN last_question_date IS NULL OR last_question_date <> $2::date THEN 1
		        ELSE daily_question_count + 1
		    END,
		    last_question_date = $2::date,
		    total_time_spent_seconds = total_time_spent_seconds + $3
		 WHERE id = $1`,
		userID, today, timeSpentSeconds)
	if err != nil {
		return fmt.Errorf("update counters: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO time_per_question (user_id, question_id, seconds)
		 VALUES ($1, $2, $3)`,
		userID, questionID, timeSpentSeconds); err != nil {
		return fmt.Errorf("append time log: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO topic_accuracy (user_id, topic, answered, correct)
		 VALUES ($1, $2, 1, $3)
		 ON CONFLICT (user_id, topic) DO UPDATE SET
		    answered = topic_accuracy.answered + 1,
		    correct = topic_accuracy.correct + $3`,
		userID, topic, correctInc); err != nil {
		return fmt.Errorf("update topic accuracy: %w", err)
	}

	return tx.Commit()
}

// CompleteSession bumps quizzesCompleted. Called once per finished
// session, never per question.
func (s *Store) CompleteSession(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET quizzes_completed = quizzes_completed + 1 WHERE id = $1`,
		userID)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpgradeToPremium flips the tier. The transition is one-way; upgrading
// an already-premium user is a no-op that returns the current record.
func (s *Store) UpgradeToPremium(ctx context.Context, userID int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE users SET tier = $2 WHERE id = $1 RETURNING `+userColumns,
		userID, models.TierPremium)
	return scanUser(row)
}

// TopicAccuracy returns the cumulative percentage for one topic, or 0 if
// the user has never answered in it.
func (s *Store) TopicAccuracy(ctx context.Context, userID int64, topic string) (int, error) {
	var answered, correct int
	err := s.db.QueryRowContext(ctx,
		`SELECT answered, correct FROM topic_accuracy WHERE user_id = $1 AND topic = $2`,
		userID, topic,
	).Scan(&answered, &correct)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("topic accuracy: %w", err)
	}
	return accuracyPercent(answered, correct), nil
}

func (s *Store) GetAnalytics(ctx context.Context, userID int64) (models.QuizAnalytics, error) {
	analytics := models.QuizAnalytics{
		TimePerQuestion: []models.TimePerQuestion{},
		AccuracyByTopic: map[string]int{},
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, seconds, answered_at FROM time_per_question
		 WHERE user_id = $1 ORDER BY answered_at, id`,
		userID)
	if err != nil {
		return analytics, fmt.Errorf("get time log: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t models.TimePerQuestion
		if err := rows.Scan(&t.QuestionID, &t.Seconds, &t.AnsweredAt); err != nil {
			return analytics, err
		}
		analytics.TimePerQuestion = append(analytics.TimePerQuestion, t)
	}
	if err := rows.Err(); err != nil {
		return analytics, err
	}

	accRows, err := s.db.QueryContext(ctx,
		`SELECT topic, answered, correct FROM topic_accuracy WHERE user_id = $1`,
		userID)
	if err != nil {
		return analytics, fmt.Errorf("get topic accuracy: %w", err)
	}
	defer accRows.Close()
	for accRows.Next() {
		var topic string
		var answered, correct int
		if err := accRows.Scan(&topic, &answered, &correct); err != nil {
			return analytics, err
		}
		analytics.AccuracyByTopic[topic] = accuracyPercent(answered, correct)
	}
	return analytics, accRows.Err()
}

func accuracyPercent(answered, correct int) int {
	if answered == 0 {
		return 0
	}
	return (correct*100 + answered/2) / answered
}
