package employee

import (
	"time"

	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/schedule"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string

	// Schedule is nil when the employee has no assigned work window.
	Schedule *schedule.WorkSchedule

	DeductionCounter MonthlyDeductionCounter

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkScheduleOr returns the assigned schedule, or fallback when none is
// assigned.
func (e Employee) WorkScheduleOr(fallback schedule.WorkSchedule) schedule.WorkSchedule {
	if e.Schedule != nil {
		return *e.Schedule
	}
	return fallback
}

// MonthlyDeductionCounter tracks punch misses for one employee within one
// calendar month. There is exactly one live counter per employee; it is reset
// lazily on the first miss processed in a new month.
type MonthlyDeductionCounter struct {
	MonthKey       string // YYYY-MM, empty until the first miss ever recorded
	MissCount      int
	TotalDeduction decimal.Decimal
}
