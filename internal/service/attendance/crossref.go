package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/attendance"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/leave"
)

// LeaveMatch is an approved leave form that explains an attendance day,
// together with the status it forces.
type LeaveMatch struct {
	Form   leave.LeaveForm
	Status attendance.Status
}

// leaveProbes is the cross-reference priority order: the first matching form
// wins and short-circuits the rest.
var leaveProbes = []struct {
	leaveType leave.LeaveType
	status    attendance.Status
}{
	{leave.LeaveTypeVacation, attendance.StatusOnLeave},
	{leave.LeaveTypeSickLeave, attendance.StatusOnLeave},
	{leave.LeaveTypeExcuse, attendance.StatusExcused},
	{leave.LeaveTypeWFH, attendance.StatusWFH},
}

// LeaveResolver cross-references attendance days against the approval
// workflow's forms.
type LeaveResolver struct {
	leaves leave.LeaveRepository
}

func NewLeaveResolver(leaves leave.LeaveRepository) *LeaveResolver {
	return &LeaveResolver{leaves: leaves}
}

// FindCoveringLeave returns the highest-priority approved leave form covering
// the date, or nil when the day is not explained by any form. A match is a
// strict status override: the classifier's result is discarded, never merged,
// and a covered day must never incur a punch-miss deduction.
func (r *LeaveResolver) FindCoveringLeave(ctx context.Context, employeeID string, date time.Time) (*LeaveMatch, error) {
	for _, probe := range leaveProbes {
		form, err := r.leaves.GetApprovedCovering(ctx, employeeID, date, probe.leaveType)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s forms: %w", probe.leaveType, err)
		}
		if form != nil {
			return &LeaveMatch{Form: *form, Status: probe.status}, nil
		}
	}
	return nil, nil
}
