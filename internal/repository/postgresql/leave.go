package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/leave"
	"github.com/shiftsync-hr/attendance-recon-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// GetApprovedCovering implements leave.LeaveRepository. Manager-approved
// forms count as approved: they already authorize the absence.
func (l *leaveRepository) GetApprovedCovering(ctx context.Context, employeeID string, date time.Time, leaveType leave.LeaveType) (*leave.LeaveForm, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, employee_id, type, start_date, end_date, status
		FROM leave_forms
		WHERE employee_id = $1
		  AND type = $2
		  AND status = ANY($3)
		  AND start_date <= $4
		  AND end_date >= $4
		ORDER BY start_date
		LIMIT 1
	`

	statuses := make([]string, len(leave.ApprovedStatuses))
	for i, s := range leave.ApprovedStatuses {
		statuses[i] = string(s)
	}

	var form leave.LeaveForm
	err := q.QueryRow(ctx, query, employeeID, leaveType, statuses, date).Scan(
		&form.ID, &form.EmployeeID, &form.Type, &form.StartDate, &form.EndDate, &form.Status,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get covering leave form: %w", err)
	}

	return &form, nil
}
