package leave

import "time"

// LeaveType enumerates the approval-workflow form types that can explain an
// absence in the fingerprint export.
type LeaveType string

const (
	LeaveTypeVacation  LeaveType = "vacation"
	LeaveTypeSickLeave LeaveType = "sick_leave"
	LeaveTypeExcuse    LeaveType = "excuse"
	LeaveTypeWFH       LeaveType = "wfh"
)

type LeaveStatus string

const (
	LeaveStatusWaitingApproval LeaveStatus = "waiting_approval"
	LeaveStatusManagerApproved LeaveStatus = "manager_approved"
	LeaveStatusApproved        LeaveStatus = "approved"
	LeaveStatusRejected        LeaveStatus = "rejected"
	LeaveStatusCancelled       LeaveStatus = "cancelled"
)

// ApprovedStatuses are the statuses that authorize an absence. A
// manager-approved form already authorizes the leave even though final HR
// approval may still be pending.
var ApprovedStatuses = []LeaveStatus{
	LeaveStatusApproved,
	LeaveStatusManagerApproved,
}

// LeaveForm is read-only to the reconciliation core; forms are created and
// approved by a separate workflow.
type LeaveForm struct {
	ID         string
	EmployeeID string
	Type       LeaveType
	StartDate  time.Time
	EndDate    time.Time // equal to StartDate for single-day forms
	Status     LeaveStatus
}

// Covers reports whether the form's date range contains the given calendar
// date. Both boundaries are inclusive; time components are ignored.
func (f LeaveForm) Covers(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(truncateToDay(f.StartDate)) && !d.After(truncateToDay(f.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
