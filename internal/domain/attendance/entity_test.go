package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseInterval(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"08:30:00", 8*3600 + 30*60, true},
		{"00:45:15", 45*60 + 15, true},
		{"01:00:00.123456", 3600, true},
		{"1 day 02:00:00", 26 * 3600, true},
		{"3 days 00:00:01", 3*86400 + 1, true},
		{"", 0, false},
		{"eight hours", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseInterval(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "8h 30m", FormatDuration(8*3600+30*60+59))
	assert.Equal(t, "0h 0m", FormatDuration(0))
	assert.Equal(t, "0h 0m", FormatDuration(-5))
	assert.Equal(t, "26h 0m", FormatDuration(26*3600))
}

func TestNewTimesheet_Totals(t *testing.T) {
	in := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	records := []Record{
		{WorkDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), ClockIn: &in, TotalBreak: strPtr("01:00:00"), WorkDuration: strPtr("08:00:00")},
		{WorkDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ClockIn: &in, TotalBreak: nil, WorkDuration: strPtr("07:30:00")},
		{WorkDate: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)},
	}
	ts := NewTimesheet("emp-1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), records)

	assert.Equal(t, "2024-03", ts.Month)
	require.Len(t, ts.Entries, 3)
	assert.Equal(t, 2, ts.DaysPresent)
	assert.Equal(t, int64(15*3600+30*60), ts.TotalWorkSeconds)
	assert.Equal(t, "15h 30m", ts.TotalWork)
	assert.Equal(t, "1h 0m", ts.TotalBreak)
	assert.Equal(t, "0h 0m", ts.Entries[2].Work)
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2024, 3, 17, 10, 0, 0, 0, time.UTC)
	m, err := ParseMonth("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), m)

	m, err = ParseMonth("2023-12", now)
	require.NoError(t, err)
	from, to := MonthRange(m)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), to)

	_, err = ParseMonth("12-2023", now)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
