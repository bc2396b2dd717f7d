package employee

import (
	"context"
)

// EmployeeRepository defines data access for employee master data consumed by
// the reconciliation pipeline.
type EmployeeRepository interface {
	// GetByCode resolves an employee by the terminal's employee code
	// (the AC-No. column in fingerprint exports).
	GetByCode(ctx context.Context, code string) (Employee, error)

	// GetByID retrieves an employee by primary key.
	GetByID(ctx context.Context, id string) (Employee, error)

	// PersistDeductionCounter stores the employee's live monthly counter.
	// Counter updates for one employee must be applied sequentially.
	PersistDeductionCounter(ctx context.Context, employeeID string, counter MonthlyDeductionCounter) error
}
