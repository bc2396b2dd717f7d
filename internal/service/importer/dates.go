package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateParser is one strategy in the parsing cascade; the first strategy to
// produce a valid calendar date wins.
type dateParser func(value string) (time.Time, bool)

var dateParsers = []dateParser{
	parseSerialDate,
	parseDayMonthNameYear,
	parseMonthDayYear,
	parseISODate,
	parseDayMonthYear,
	parseGenericDate,
}

// ParseDate runs the cascade of date strategies against a raw cell value and
// returns the calendar date (UTC midnight) on success.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, parse := range dateParsers {
		if date, ok := parse(value); ok {
			return asDay(date), true
		}
	}
	return time.Time{}, false
}

func asDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseSerialDate handles spreadsheet date serial numbers: days since the
// 1899-12-30 epoch. The lower bound keeps small integers (bare day numbers)
// from being misread as dates in the early 1900s.
func parseSerialDate(value string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return time.Time{}, false
	}
	if serial < 1000 || serial >= 200000 {
		return time.Time{}, false
	}
	parsed, err := excelize.ExcelDateToTime(serial, false)
	if err != nil || parsed.Year() <= 1900 {
		return time.Time{}, false
	}
	return parsed, true
}

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// parseDayMonthNameYear handles DD-MMM-YY and DD-MMM-YYYY. Two-digit years
// below 50 map to the 2000s, 50 and above to the 1900s.
func parseDayMonthNameYear(value string) (time.Time, bool) {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}

	month, ok := monthsByName[strings.ToLower(strings.TrimSpace(parts[1]))]
	if !ok {
		return time.Time{}, false
	}

	yearStr := strings.TrimSpace(parts[2])
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	switch len(yearStr) {
	case 2:
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	case 4:
	default:
		return time.Time{}, false
	}

	if !validCalendarDay(year, month, day) {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// validCalendarDay rejects dates that time.Date would silently normalize,
// e.g. February 31.
func validCalendarDay(year int, month time.Month, day int) bool {
	if day < 1 {
		return false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == month && t.Day() == day
}

func parseWithLayouts(value string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil && parsed.Year() > 1900 {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func parseMonthDayYear(value string) (time.Time, bool) {
	return parseWithLayouts(value, []string{"1/2/2006", "01/02/2006"})
}

func parseISODate(value string) (time.Time, bool) {
	return parseWithLayouts(value, []string{"2006-01-02"})
}

func parseDayMonthYear(value string) (time.Time, bool) {
	return parseWithLayouts(value, []string{"2-1-2006", "02-01-2006", "2/1/2006"})
}

// parseGenericDate is the last-resort attempt for formats occasionally seen
// in hand-edited exports.
func parseGenericDate(value string) (time.Time, bool) {
	return parseWithLayouts(value, []string{
		"2006/01/02",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006",
		"2 January 2006",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"01/02/2006 15:04",
		"01/02/2006 15:04:05",
	})
}
