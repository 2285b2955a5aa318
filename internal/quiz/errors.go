package quiz

import "errors"

// Expected, user-facing conditions surface as session error states;
// the rest are usage errors returned directly to the caller.
var (
	ErrQuotaExceeded        = errors.New("daily question quota exceeded")
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrFetchFailed          = errors.New("question fetch failed")
	ErrInvalidInput         = errors.New("invalid input")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionNotActive     = errors.New("session not active")
)
