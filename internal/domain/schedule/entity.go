package schedule

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock time with no date component, stored as minutes since
// midnight. Punch times and schedule boundaries are all times-of-day; keeping
// them as minutes makes lateness/overtime arithmetic plain integer math.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < 24*60
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// At anchors the time-of-day onto a calendar date in that date's location.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

// WorkSchedule is an employee's expected daily work window. Schedules are
// immutable for the duration of a reconciliation run.
type WorkSchedule struct {
	ClockIn  TimeOfDay
	ClockOut TimeOfDay
}

// Default organization hours, used when an employee has no schedule assigned.
var DefaultWorkSchedule = WorkSchedule{
	ClockIn:  NewTimeOfDay(10, 0),
	ClockOut: NewTimeOfDay(19, 0),
}
