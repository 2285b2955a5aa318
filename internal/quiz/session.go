package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/examprep/backend/internal/models"
)

const (
	// DefaultExamSize is used when fixed-size mode gets non-numeric or
	// non-positive input. A deliberate policy, not silent coercion: the
	// mobile UI ships free-form text for this field.
	DefaultExamSize = 30

	// unlimitedBatchSize keeps unlimited mode loading in small chunks.
	unlimitedBatchSize = 5
)

// Gate abstracts the quota decision (progress.QuotaGate).
type Gate interface {
	CanAnswer(u *models.User) bool
}

// ProgressReporter is the slice of the progress store a session drives.
type ProgressReporter interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	RecordAnswer(ctx context.Context, userID, questionID int64, timeSpentSeconds int, topic string, correct bool) error
	CompleteSession(ctx context.Context, userID int64) error
}

// ScoreSubmitter records final scores (leaderboard.Service).
type ScoreSubmitter interface {
	Submit(ctx context.Context, username string, score int) error
}

// SessionDeps bundles the collaborators shared by all sessions.
type SessionDeps struct {
	Gate        Gate
	Progress    ProgressReporter
	Selector    *Selector
	Primary     Source
	Fallback    Source // optional secondary source, may be nil
	Leaderboard ScoreSubmitter
}

// Session runs one quiz for one user:
// ModeSelect → Loading → Active → Finished | Errored, with Active
// re-entering Loading on batch exhaustion in unlimited mode.
type Session struct {
	mu sync.Mutex

	id     string
	userID int64
	deps   SessionDeps

	mode      models.QuizMode
	topic     string
	username  string
	batchSize int

	state    models.SessionState
	errCode  string
	batch    []models.Question
	index    int
	score    int
	answered int
	served   []int64

	pendingScore bool
}

func NewSession(id string, userID int64, deps SessionDeps) *Session {
	return &Session{
		id:     id,
		userID: userID,
		deps:   deps,
		state:  models.StateModeSelect,
	}
}

// ResolveExamSize turns the free-form exam-size input into a batch size.
// Anything that is not a positive integer resolves to DefaultExamSize.
func ResolveExamSize(input string) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return DefaultExamSize
	}
	return n
}

// Start picks the mode and runs the first loading cycle. It may only be
// called once, from ModeSelect.
func (s *Session) Start(ctx context.Context, req models.StartSessionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateModeSelect {
		return fmt.Errorf("%w: session already started", ErrInvalidInput)
	}
	if !models.ValidQuizModes[req.Mode] {
		return fmt.Errorf("%w: unknown quiz mode %q", ErrInvalidInput, req.Mode)
	}
	if strings.TrimSpace(req.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}

	s.mode = req.Mode
	s.topic = strings.TrimSpace(req.Topic)
	s.username = strings.TrimSpace(req.Username)

	switch req.Mode {
	case models.ModeOneByOne:
		s.batchSize = 1
	case models.ModeFixedSize:
		s.batchSize = ResolveExamSize(req.ExamSize)
	case models.ModeUnlimited:
		s.batchSize = unlimitedBatchSize
	}

	return s.load(ctx)
}

// load is one Loading cycle: quota check, pool selection, batch fetch.
// Caller holds the lock.
func (s *Session) load(ctx context.Context) error {
	s.state = models.StateLoading

	user, err := s.deps.Progress.GetUser(ctx, s.userID)
	if err != nil {
		return s.fail(ErrFetchFailed, err)
	}
	if !s.deps.Gate.CanAnswer(user) {
		return s.fail(ErrQuotaExceeded, nil)
	}

	batch, err := s.deps.Selector.SelectPool(ctx, s.deps.Primary, user, s.topic, s.batchSize, s.served)
	if errors.Is(err, ErrNoQuestionsAvailable) && s.deps.Fallback != nil {
		batch, err = s.deps.Selector.SelectPool(ctx, s.deps.Fallback, user, s.topic, s.batchSize, s.served)
	}
	if err != nil {
		if errors.Is(err, ErrNoQuestionsAvailable) {
			return s.fail(ErrNoQuestionsAvailable, nil)
		}
		return s.fail(ErrFetchFailed, err)
	}

	if len(batch) > s.batchSize {
		batch = batch[:s.batchSize]
	}
	for i := range batch {
		s.served = append(s.served, batch[i].ID)
	}
	s.batch = batch
	s.index = 0
	s.state = models.StateActive
	return nil
}

// refill is the Loading re-entry for unlimited mode. Exhausting the
// question supply ends the session normally instead of erroring.
func (s *Session) refill(ctx context.Context) error {
	s.state = models.StateLoading

	user, err := s.deps.Progress.GetUser(ctx, s.userID)
	if err != nil {
		return s.fail(ErrFetchFailed, err)
	}
	if !s.deps.Gate.CanAnswer(user) {
		return s.fail(ErrQuotaExceeded, nil)
	}

	batch, err := s.deps.Selector.SelectPool(ctx, s.deps.Primary, user, s.topic, s.batchSize, s.served)
	if errors.Is(err, ErrNoQuestionsAvailable) && s.deps.Fallback != nil {
		batch, err = s.deps.Selector.SelectPool(ctx, s.deps.Fallback, user, s.topic, s.batchSize, s.served)
	}
	if errors.Is(err, ErrNoQuestionsAvailable) {
		s.finish(ctx)
		return nil
	}
	if err != nil {
		return s.fail(ErrFetchFailed, err)
	}

	for i := range batch {
		s.served = append(s.served, batch[i].ID)
	}
	s.batch = batch
	s.index = 0
	s.state = models.StateActive
	return nil
}

// SubmitAnswer scores one answer against the stored correct answer
// (exact string match), reports it to the progress store, and advances
// the session. Each question accepts exactly one submission.
func (s *Session) SubmitAnswer(ctx context.Context, answer string, timeSpentSeconds int) (*models.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateActive {
		return nil, fmt.Errorf("%w: state is %s", ErrSessionNotActive, s.state)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("%w: empty answer", ErrInvalidInput)
	}
	if timeSpentSeconds < 0 {
		return nil, fmt.Errorf("%w: negative time spent", ErrInvalidInput)
	}

	question := s.batch[s.index]
	correct := answer == question.Answer
	s.answered++
	if correct {
		s.score++
	}

	// Progress reporting is best effort from the session's point of
	// view; the store applies it atomically on its side.
	if err := s.deps.Progress.RecordAnswer(ctx, s.userID, question.ID, timeSpentSeconds, question.Topic, correct); err != nil {
		log.Printf("WARN: failed to record answer for user %d: %v", s.userID, err)
	}

	s.index++
	if s.index >= len(s.batch) {
		switch s.mode {
		case models.ModeUnlimited:
			if err := s.refill(ctx); err != nil {
				return nil, err
			}
		default:
			s.finish(ctx)
		}
	}

	return &models.AnswerResult{
		Correct:     correct,
		Answer:      question.Answer,
		Explanation: question.Explanation,
		Session:     s.snapshotLocked(),
	}, nil
}

// finish moves to Finished, bumps quizzesCompleted, and submits the
// score when a username is known. Without one the score is held on the
// session for a later SubmitPendingScore. Caller holds the lock.
func (s *Session) finish(ctx context.Context) {
	s.state = models.StateFinished
	s.batch = nil

	if err := s.deps.Progress.CompleteSession(ctx, s.userID); err != nil {
		log.Printf("WARN: failed to mark session complete for user %d: %v", s.userID, err)
	}

	if s.username == "" {
		s.pendingScore = true
		return
	}
	if err := s.deps.Leaderboard.Submit(ctx, s.username, s.score); err != nil {
		log.Printf("WARN: failed to submit score for %q: %v", s.username, err)
		s.pendingScore = true
	}
}

// SubmitPendingScore submits a finished session's score once the caller
// has captured a username.
func (s *Session) SubmitPendingScore(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateFinished || !s.pendingScore {
		return fmt.Errorf("%w: no pending score", ErrInvalidInput)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if err := s.deps.Leaderboard.Submit(ctx, username, s.score); err != nil {
		return fmt.Errorf("submit pending score: %w", err)
	}
	s.username = username
	s.pendingScore = false
	return nil
}

// fail moves to the terminal Errored state. The session keeps the error
// code for the caller to branch on; a new session is the only retry.
func (s *Session) fail(sentinel error, cause error) error {
	s.state = models.StateErrored
	s.errCode = errCode(sentinel)
	s.batch = nil
	if cause != nil {
		return fmt.Errorf("%w: %v", sentinel, cause)
	}
	return sentinel
}

func errCode(err error) string {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrNoQuestionsAvailable):
		return "no_questions_available"
	case errors.Is(err, ErrFetchFailed):
		return "fetch_failed"
	default:
		return "error"
	}
}

func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() models.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() models.SessionResponse {
	resp := models.SessionResponse{
		SessionID:    s.id,
		State:        s.state,
		Mode:         s.mode,
		Topic:        s.topic,
		Score:        s.score,
		Answered:     s.answered,
		ScorePending: s.pendingScore,
		ErrorCode:    s.errCode,
	}
	if s.state == models.StateActive && s.index < len(s.batch) {
		q := s.batch[s.index].Serve()
		resp.Question = &q
	}
	return resp
}
