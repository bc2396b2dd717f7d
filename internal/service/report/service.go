package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/report"
)

type ReportServiceImpl struct {
	report.ReportRepository
}

func NewReportService(reportRepo report.ReportRepository) *ReportServiceImpl {
	return &ReportServiceImpl{ReportRepository: reportRepo}
}

// GetMonthlySummary aggregates reconciled attendance for one month: day
// counts per status plus lateness, overtime and deduction totals. This is
// the query payroll and reporting surfaces consume.
func (s *ReportServiceImpl) GetMonthlySummary(ctx context.Context, req report.MonthlySummaryRequest) (report.MonthlySummaryReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlySummaryReport{}, err
	}

	employees, err := s.ReportRepository.GetMonthlySummary(ctx, req.MonthKey(), req.EmployeeID)
	if err != nil {
		return report.MonthlySummaryReport{}, fmt.Errorf("failed to get monthly summary: %w", err)
	}

	return report.MonthlySummaryReport{
		MonthKey:    req.MonthKey(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Employees:   employees,
	}, nil
}
