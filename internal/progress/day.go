package progress

import "time"

const dateLayout = "2006-01-02"

// dayKey returns the calendar-day key for t in the store's configured zone.
// All quota accounting uses this key, so the daily reset boundary follows
// the configured zone rather than the server's.
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// isNewDay reports whether the stored last-answer date falls on an earlier
// calendar day than now. A user who has never answered counts as a new day.
// Both the quota gate's read path and the store's write path go through
// this one check.
func isNewDay(last *time.Time, now time.Time, loc *time.Location) bool {
	if last == nil {
		return true
	}
	// last_question_date is a DATE column; the driver hands it back as
	// midnight UTC of the stored day, so recover the key in UTC.
	return last.UTC().Format(dateLayout) != dayKey(now, loc)
}
