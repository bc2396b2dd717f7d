package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestParseDate_DayMonthNameYear(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"26-Dec-25", date(2025, time.December, 26)},
		{"26-Dec-2025", date(2025, time.December, 26)},
		{"1-Jan-00", date(2000, time.January, 1)},
		{"15-MAR-99", date(1999, time.March, 15)},
		{"5-november-49", date(2049, time.November, 5)},
		{"05-Nov-50", date(1950, time.November, 5)},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		require.True(t, ok, "expected %q to parse", tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDate_InvalidCalendarDateRejected(t *testing.T) {
	_, ok := ParseDate("31-Feb-2025")
	assert.False(t, ok)

	_, ok = ParseDate("32-Jan-2025")
	assert.False(t, ok)

	_, ok = ParseDate("0-Jan-2025")
	assert.False(t, ok)
}

func TestParseDate_NumericFormats(t *testing.T) {
	got, ok := ParseDate("12/26/2025")
	require.True(t, ok)
	assert.Equal(t, date(2025, time.December, 26), got)

	got, ok = ParseDate("2025-12-26")
	require.True(t, ok)
	assert.Equal(t, date(2025, time.December, 26), got)

	got, ok = ParseDate("26-12-2025")
	require.True(t, ok)
	assert.Equal(t, date(2025, time.December, 26), got)
}

func TestParseDate_AmbiguousNumericTriesInterpretations(t *testing.T) {
	// 13 cannot be a month, so the day-month-year reading must win.
	got, ok := ParseDate("13/05/2025")
	require.True(t, ok)
	assert.Equal(t, date(2025, time.May, 13), got)

	// A value valid in the first interpretation stops the cascade.
	got, ok = ParseDate("05/13/2025")
	require.True(t, ok)
	assert.Equal(t, date(2025, time.May, 13), got)
}

func TestParseDate_SerialNumber(t *testing.T) {
	// 45992 days after 1899-12-30 is 2025-12-01.
	got, ok := ParseDate("45992")
	require.True(t, ok)
	assert.Equal(t, date(2025, time.December, 1), got)

	// Small integers are day numbers, not serials.
	_, ok = ParseDate("26")
	assert.False(t, ok)
}

func TestParseDate_GenericFallback(t *testing.T) {
	got, ok := ParseDate("2025/12/26")
	require.True(t, ok)
	assert.Equal(t, date(2025, time.December, 26), got)

	got, ok = ParseDate("2025-12-26 08:30:00")
	require.True(t, ok)
	assert.Equal(t, date(2025, time.December, 26), got)
}

func TestParseDate_Garbage(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "12-26", "Dec-2025"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, "expected %q not to parse", in)
	}
}
