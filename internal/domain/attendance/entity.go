package attendance

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Record is the per-day aggregate maintained from clock events. Durations are
// kept as Postgres interval text ("HH:MM:SS").
type Record struct {
	ID           string
	TenantID     string
	EmployeeID   string
	WorkDate     time.Time
	ClockIn      *time.Time
	ClockOut     *time.Time
	TotalBreak   *string
	WorkDuration *string
}

var intervalRegex = regexp.MustCompile(`(?:(\d+) days? )?(\d+):(\d+):(\d+)`)

// ParseInterval converts interval text to seconds. An optional leading day
// count ("1 day 02:00:00") is honoured; fractional seconds are dropped.
func ParseInterval(s string) (int64, bool) {
	m := intervalRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	var days int64
	if m[1] != "" {
		days, _ = strconv.ParseInt(m[1], 10, 64)
	}
	h, _ := strconv.ParseInt(m[2], 10, 64)
	mins, _ := strconv.ParseInt(m[3], 10, 64)
	sec, _ := strconv.ParseInt(m[4], 10, 64)
	return days*86400 + h*3600 + mins*60 + sec, true
}

// IntervalSeconds parses a nullable interval, treating nil or garbage as zero.
func IntervalSeconds(s *string) int64 {
	if s == nil {
		return 0
	}
	secs, _ := ParseInterval(*s)
	return secs
}

// FormatDuration renders seconds as "Xh Ym".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}

// MonthRange returns [first day of month, first day of next month).
func MonthRange(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	return start, start.AddDate(0, 1, 0)
}
