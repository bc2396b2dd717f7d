package report

import (
	"fmt"
	"time"

	"github.com/shiftsync-hr/attendance-recon-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// MONTHLY ATTENDANCE SUMMARY
// ========================================

type MonthlySummaryRequest struct {
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	EmployeeID string `json:"employee_id,omitempty"` // empty = all employees
}

func (r *MonthlySummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MonthKey formats the requested period as YYYY-MM.
func (r *MonthlySummaryRequest) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", r.Year, r.Month)
}

type MonthlySummaryReport struct {
	MonthKey    string `json:"month_key"`
	GeneratedAt string `json:"generated_at"`

	Employees []EmployeeMonthlySummary `json:"employees"`
}

// EmployeeMonthlySummary is the aggregation this core exposes to payroll and
// reporting surfaces: day counts per status plus lateness, overtime and
// deduction totals for one employee in one month.
type EmployeeMonthlySummary struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`

	PresentDays int `json:"present_days"`
	LateDays    int `json:"late_days"`
	AbsentDays  int `json:"absent_days"`
	ExcusedDays int `json:"excused_days"`
	OnLeaveDays int `json:"on_leave_days"`
	WFHDays     int `json:"wfh_days"`

	TotalLateMinutes     int `json:"total_late_minutes"`
	TotalOvertimeMinutes int `json:"total_overtime_minutes"`

	TotalDeduction decimal.Decimal `json:"total_deduction"`
}
