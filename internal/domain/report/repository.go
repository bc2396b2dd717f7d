package report

import "context"

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// GetMonthlySummary aggregates reconciled attendance facts for one month.
	// employeeID narrows the result to a single employee when non-empty.
	GetMonthlySummary(ctx context.Context, monthKey string, employeeID string) ([]EmployeeMonthlySummary, error)
}
