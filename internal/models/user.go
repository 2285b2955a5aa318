package models

import "time"

type Role string

const (
	RoleStudent     Role = "student"
	RoleTeacher     Role = "teacher"
	RoleInstitution Role = "institution"
)

var ValidRoles = map[Role]bool{
	RoleStudent:     true,
	RoleTeacher:     true,
	RoleInstitution: true,
}

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// User is the persistent per-user record. Tier moves free→premium only;
// Badge is assigned at most once (see badges package).
type User struct {
	ID       int64            `json:"id"`
	Email    string           `json:"email"`
	Role     Role             `json:"role"`
	Tier     Tier             `json:"tier"`
	Badge    *string          `json:"badge"`
	JoinDate time.Time        `json:"join_date"`
	Progress ProgressCounters `json:"progress"`
}

func (u *User) IsPremium() bool {
	return u.Tier == TierPremium
}

// ProgressCounters are mutated only through the progress store.
type ProgressCounters struct {
	QuizzesCompleted      int        `json:"quizzes_completed"`
	DailyQuestionCount    int        `json:"daily_question_count"`
	LastQuestionDate      *time.Time `json:"last_question_date"`
	TotalTimeSpentSeconds int64      `json:"total_time_spent_seconds"`
}

// QuizAnalytics is the per-user analytics view. TimePerQuestion is an
// append-only log; AccuracyByTopic maps topic → cumulative percentage.
type QuizAnalytics struct {
	TimePerQuestion []TimePerQuestion `json:"time_per_question"`
	AccuracyByTopic map[string]int    `json:"accuracy_by_topic"`
}

type TimePerQuestion struct {
	QuestionID int64     `json:"question_id"`
	Seconds    int       `json:"seconds"`
	AnsweredAt time.Time `json:"answered_at"`
}

// ── Request Types ─────────────────────────────────────────

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ── Response Types ────────────────────────────────────────

type AuthResponse struct {
	Token string  `json:"token"`
	User  User    `json:"user"`
	Badge *string `json:"badge_awarded,omitempty"`
}

type UpgradeResponse struct {
	User  User    `json:"user"`
	Badge *string `json:"badge_awarded,omitempty"`
}

type ProgressResponse struct {
	User               User          `json:"user"`
	Analytics          QuizAnalytics `json:"analytics"`
	QuestionsLeftToday *int          `json:"questions_left_today,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
