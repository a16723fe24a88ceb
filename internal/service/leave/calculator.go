package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// civil drops the clock and zone so day arithmetic is not skewed by DST.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TotalDays counts calendar days from start to end inclusive. It is 0 when
// start is after end.
func TotalDays(start, end time.Time) int {
	s, e := civil(start), civil(end)
	if s.After(e) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// WorkingDays counts the days from start to end inclusive that are not a
// Saturday or Sunday. Public holidays are not considered.
func WorkingDays(start, end time.Time) int {
	s, e := civil(start), civil(end)
	days := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days++
	}
	return days
}

// IsSufficient reports whether workingDays fits in the available balance.
func IsSufficient(workingDays int, available decimal.Decimal) bool {
	return decimal.NewFromInt(int64(workingDays)).LessThanOrEqual(available)
}
