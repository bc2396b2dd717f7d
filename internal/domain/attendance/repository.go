package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for reconciled attendance facts.
type AttendanceRepository interface {
	// Upsert inserts or fully replaces the fact keyed by (employee, date).
	// Last write wins; re-uploading a corrected file must not accumulate.
	Upsert(ctx context.Context, fact AttendanceFact) (AttendanceFact, error)

	// GetByEmployeeAndDate retrieves the fact for one employee on one date,
	// or nil when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceFact, error)

	// List retrieves facts with filters and pagination.
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceFact, int64, error)
}
