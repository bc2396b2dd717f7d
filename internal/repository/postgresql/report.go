package postgresql

import (
	"context"
	"fmt"

	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/report"
	"github.com/shiftsync-hr/attendance-recon-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

// GetMonthlySummary implements report.ReportRepository.
func (r *reportRepository) GetMonthlySummary(ctx context.Context, monthKey string, employeeID string) ([]report.EmployeeMonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id,
			e.employee_code,
			e.full_name,
			COUNT(*) FILTER (WHERE af.status = 'present')  AS present_days,
			COUNT(*) FILTER (WHERE af.status = 'late')     AS late_days,
			COUNT(*) FILTER (WHERE af.status = 'absent')   AS absent_days,
			COUNT(*) FILTER (WHERE af.status = 'excused')  AS excused_days,
			COUNT(*) FILTER (WHERE af.status = 'on_leave') AS on_leave_days,
			COUNT(*) FILTER (WHERE af.status = 'wfh')      AS wfh_days,
			COALESCE(SUM(af.late_minutes), 0)              AS total_late_minutes,
			COALESCE(SUM(af.overtime_minutes), 0)          AS total_overtime_minutes,
			COALESCE(SUM(af.deduction), 0)                 AS total_deduction
		FROM attendance_facts af
		JOIN employees e ON e.id = af.employee_id
		WHERE af.month_key = $1
		  AND ($2 = '' OR af.employee_id = $2::uuid)
		GROUP BY e.id, e.employee_code, e.full_name
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, monthKey, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly summary: %w", err)
	}
	defer rows.Close()

	var summaries []report.EmployeeMonthlySummary
	for rows.Next() {
		var s report.EmployeeMonthlySummary
		if err := rows.Scan(
			&s.EmployeeID, &s.EmployeeCode, &s.EmployeeName,
			&s.PresentDays, &s.LateDays, &s.AbsentDays,
			&s.ExcusedDays, &s.OnLeaveDays, &s.WFHDays,
			&s.TotalLateMinutes, &s.TotalOvertimeMinutes,
			&s.TotalDeduction,
		); err != nil {
			return nil, fmt.Errorf("failed to scan monthly summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly summary rows: %w", err)
	}

	return summaries, nil
}
