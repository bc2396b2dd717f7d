package importer

import (
	"math"
	"strconv"
	"strings"

	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/schedule"
)

type timeParser func(value string) (schedule.TimeOfDay, bool)

var timeParsers = []timeParser{
	parseFractionalDayTime,
	parseTwentyFourHourTime,
	parseTwelveHourTime,
}

// ParseClockTime runs the cascade of time strategies against a raw cell
// value. An empty or unparseable value means the punch was not recorded;
// rows are never rejected for it.
func ParseClockTime(value string) (schedule.TimeOfDay, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	for _, parse := range timeParsers {
		if t, ok := parse(value); ok {
			return t, true
		}
	}
	return 0, false
}

// parseFractionalDayTime handles the spreadsheet time encoding: a decimal
// fraction of a day in [0,1), e.g. 0.4375 is 10:30.
func parseFractionalDayTime(value string) (schedule.TimeOfDay, bool) {
	fraction, err := strconv.ParseFloat(value, 64)
	if err != nil || fraction < 0 || fraction >= 1 {
		return 0, false
	}
	minutes := int(math.Round(fraction * 24 * 60))
	if minutes >= 24*60 {
		minutes = 24*60 - 1
	}
	return schedule.TimeOfDay(minutes), true
}

// parseTwentyFourHourTime handles H:MM and HH:MM, range-checked so that
// values like 25:99 are treated as missing punches rather than clock times.
func parseTwentyFourHourTime(value string) (schedule.TimeOfDay, bool) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return schedule.NewTimeOfDay(hour, minute), true
}

// parseTwelveHourTime handles H:MM AM/PM.
func parseTwelveHourTime(value string) (schedule.TimeOfDay, bool) {
	upper := strings.ToUpper(value)

	var meridiem string
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
	default:
		return 0, false
	}

	clock := strings.TrimSpace(strings.TrimSuffix(upper, meridiem))
	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	if meridiem == "PM" && hour != 12 {
		hour += 12
	}
	if meridiem == "AM" && hour == 12 {
		hour = 0
	}
	return schedule.NewTimeOfDay(hour, minute), true
}
