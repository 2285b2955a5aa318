package progress

import (
	"time"

	"github.com/examprep/backend/internal/models"
)

// DailyQuestionLimit is the free-tier cap on answerable questions per
// calendar day.
const DailyQuestionLimit = 100

// QuotaGate decides whether a user may answer another question today.
// It is a pure decision over the user record: a counter from a previous
// day reads as zero, the actual reset is written by the next RecordAnswer.
type QuotaGate struct {
	loc *time.Location
	now func() time.Time
}

func NewQuotaGate(loc *time.Location) *QuotaGate {
	return &QuotaGate{loc: loc, now: time.Now}
}

func (g *QuotaGate) CanAnswer(u *models.User) bool {
	if u.IsPremium() {
		return true
	}
	if isNewDay(u.Progress.LastQuestionDate, g.now(), g.loc) {
		return true
	}
	return u.Progress.DailyQuestionCount < DailyQuestionLimit
}

// QuestionsLeftToday returns the free-tier remainder for display. Premium
// users have no cap; callers should not show a remainder for them.
func (g *QuotaGate) QuestionsLeftToday(u *models.User) int {
	if isNewDay(u.Progress.LastQuestionDate, g.now(), g.loc) {
		return DailyQuestionLimit
	}
	left := DailyQuestionLimit - u.Progress.DailyQuestionCount
	if left < 0 {
		return 0
	}
	return left
}
