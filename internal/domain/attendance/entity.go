package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the final daily attendance status after leave cross-referencing.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusExcused Status = "excused"
	StatusOnLeave Status = "on_leave"
	StatusWFH     Status = "wfh"
)

// FingerprintMiss classifies which expected punches were not recorded.
type FingerprintMiss string

const (
	MissNone     FingerprintMiss = "none"
	MissClockIn  FingerprintMiss = "clock_in"
	MissClockOut FingerprintMiss = "clock_out"
	MissBoth     FingerprintMiss = "both"
)

// AttendanceFact is one reconciled day for one employee. (EmployeeID, Date)
// is unique; re-uploads for the same pair overwrite in place.
type AttendanceFact struct {
	ID         string
	EmployeeID string
	Date       time.Time
	MonthKey   string // YYYY-MM, derived from Date

	ClockIn  *time.Time
	ClockOut *time.Time

	Status          Status
	LateMinutes     int
	OvertimeMinutes int

	MissedClockIn   bool
	MissedClockOut  bool
	FingerprintMiss FingerprintMiss

	// Deduction applied for this record's punch misses, in fractions of a
	// day's pay. Zero when the day was covered by approved leave.
	Deduction decimal.Decimal

	// LeaveFormID references the covering leave form when the status was
	// overridden by the cross-referencer.
	LeaveFormID *string

	// Provenance
	UploadedBy string
	UploadedAt time.Time
	SourceFile string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MonthKeyOf derives the YYYY-MM month key used to scope monthly deduction
// counters and reporting queries.
func MonthKeyOf(date time.Time) string {
	return date.Format("2006-01")
}
