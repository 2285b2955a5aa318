package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "examprep_user")
	password := getEnv("DB_PASSWORD", "examprep_password")
	dbname := getEnv("DB_NAME", "examprep")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id                       BIGSERIAL PRIMARY KEY,
		email                    VARCHAR(255) UNIQUE NOT NULL,
		password                 VARCHAR(255) NOT NULL,
		role                     VARCHAR(20) NOT NULL DEFAULT 'student',
		tier                     VARCHAR(10) NOT NULL DEFAULT 'free',
		badge                    VARCHAR(100),
		join_date                TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		quizzes_completed        INT NOT NULL DEFAULT 0,
		daily_question_count     INT NOT NULL DEFAULT 0,
		last_question_date       DATE,
		total_time_spent_seconds BIGINT NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS questions (
		id          BIGSERIAL PRIMARY KEY,
		topic       VARCHAR(100) NOT NULL,
		difficulty  VARCHAR(20) NOT NULL,
		prompt      TEXT NOT NULL,
		answer      TEXT NOT NULL,
		explanation TEXT,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic, difficulty);

	CREATE TABLE IF NOT EXISTS question_options (
		id          BIGSERIAL PRIMARY KEY,
		question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		position    INT NOT NULL,
		option_text TEXT NOT NULL,
		UNIQUE(question_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_options_question ON question_options(question_id);

	CREATE TABLE IF NOT EXISTS time_per_question (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		question_id BIGINT NOT NULL,
		seconds     INT NOT NULL,
		answered_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_tpq_user ON time_per_question(user_id, answered_at);

	CREATE TABLE IF NOT EXISTS topic_accuracy (
		user_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic    VARCHAR(100) NOT NULL,
		answered INT NOT NULL DEFAULT 0,
		correct  INT NOT NULL DEFAULT 0,
		UNIQUE(user_id, topic)
	);

	CREATE INDEX IF NOT EXISTS idx_accuracy_user ON topic_accuracy(user_id);

	CREATE TABLE IF NOT EXISTS leaderboard_entries (
		id           BIGSERIAL PRIMARY KEY,
		username     VARCHAR(100) NOT NULL,
		score        INT NOT NULL,
		submitted_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard_entries(score DESC, submitted_at ASC);

	CREATE TABLE IF NOT EXISTS badge_counters (
		name    VARCHAR(50) PRIMARY KEY,
		granted INT NOT NULL DEFAULT 0,
		cap     INT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS badge_grants (
		user_id    BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		bracket    VARCHAR(10) NOT NULL,
		badge      VARCHAR(100),
		decided_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Seed the capped badge counters. Idempotent for existing databases.
	seeds := []string{
		`INSERT INTO badge_counters (name, granted, cap) VALUES ('first_torchbearer', 0, 100)
		 ON CONFLICT (name) DO NOTHING`,
		`INSERT INTO badge_counters (name, granted, cap) VALUES ('vanguard', 0, 300)
		 ON CONFLICT (name) DO NOTHING`,
	}
	for _, stmt := range seeds {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("seed badge counters: %w", err)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
