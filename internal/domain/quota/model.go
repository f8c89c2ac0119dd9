package quota

import "time"

// DefaultDailyLimit matches the provider's free-tier allowance.
const DefaultDailyLimit = 100

// Usage is one day's outbound-request ledger entry.
type Usage struct {
	Day   string
	Count int
}

// DayKey formats the ledger key for a point in time. Days roll over in UTC
// so every replica agrees on the boundary.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Remaining returns how many requests are left for the day under limit.
func (u Usage) Remaining(limit int) int {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	left := limit - u.Count
	if left < 0 {
		return 0
	}
	return left
}
