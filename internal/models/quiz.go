package models

import "time"

// QuizMode selects how a session batches questions.
type QuizMode string

const (
	ModeOneByOne  QuizMode = "one-by-one"
	ModeFixedSize QuizMode = "fixed-size"
	ModeUnlimited QuizMode = "unlimited"
)

var ValidQuizModes = map[QuizMode]bool{
	ModeOneByOne:  true,
	ModeFixedSize: true,
	ModeUnlimited: true,
}

// SessionState is the lifecycle of one quiz session. Finished and Errored
// are terminal; unlimited mode re-enters Loading from Active on batch
// exhaustion.
type SessionState string

const (
	StateModeSelect SessionState = "mode_select"
	StateLoading    SessionState = "loading"
	StateActive     SessionState = "active"
	StateFinished   SessionState = "finished"
	StateErrored    SessionState = "error"
)

// LeaderboardEntry is one row of the append-only score log.
type LeaderboardEntry struct {
	Username    string    `json:"username"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ── Request Types ─────────────────────────────────────────

type StartSessionRequest struct {
	Mode  QuizMode `json:"mode"`
	Topic string   `json:"topic"`
	// ExamSize is the requested size for fixed-size mode. Kept as a string
	// because the source UI sends free-form input; non-numeric or ≤0 values
	// resolve to the documented default of 30.
	ExamSize string `json:"exam_size,omitempty"`
	Username string `json:"username,omitempty"`
}

type SubmitAnswerRequest struct {
	Answer           string `json:"answer"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

type SubmitScoreRequest struct {
	Username string `json:"username"`
}

// ── Response Types ────────────────────────────────────────

type SessionResponse struct {
	SessionID string          `json:"session_id"`
	State     SessionState    `json:"state"`
	Mode      QuizMode        `json:"mode"`
	Topic     string          `json:"topic"`
	Score     int             `json:"score"`
	Answered  int             `json:"answered"`
	Question  *ServedQuestion `json:"question,omitempty"`
	// ScorePending is true once the session finished without a username;
	// the caller must capture one and submit the pending score.
	ScorePending bool   `json:"score_pending_submission,omitempty"`
	ErrorCode    string `json:"error_code,omitempty"`
}

type AnswerResult struct {
	Correct     bool            `json:"correct"`
	Answer      string          `json:"answer"`
	Explanation string          `json:"explanation,omitempty"`
	Session     SessionResponse `json:"session"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
