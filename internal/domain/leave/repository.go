package leave

import (
	"context"
	"time"
)

// LeaveRepository - read-only access to the approval workflow's forms.
type LeaveRepository interface {
	// GetApprovedCovering returns an approved (or manager-approved) form of
	// the given type whose date range contains the date, or nil when none
	// exists. Range containment is inclusive on both ends.
	GetApprovedCovering(ctx context.Context, employeeID string, date time.Time, leaveType LeaveType) (*LeaveForm, error)
}
