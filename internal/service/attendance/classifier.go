package attendance

import (
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/attendance"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/schedule"
)

const (
	// DefaultGracePeriodMinutes is the grace window applied by the
	// reconciliation pipeline.
	DefaultGracePeriodMinutes = 15

	// StandaloneGraceMinutes is the default used by LateMinutes when it is
	// called outside the pipeline.
	StandaloneGraceMinutes = 10
)

// Classification is the raw result of comparing punches to a schedule,
// before leave cross-referencing.
type Classification struct {
	Status          attendance.Status
	LateMinutes     int
	OvertimeMinutes int
	MissedClockIn   bool
	MissedClockOut  bool
}

// Miss derives the fingerprint-miss bucket from the missed flags.
func (c Classification) Miss() attendance.FingerprintMiss {
	switch {
	case c.MissedClockIn && c.MissedClockOut:
		return attendance.MissBoth
	case c.MissedClockIn:
		return attendance.MissClockIn
	case c.MissedClockOut:
		return attendance.MissClockOut
	default:
		return attendance.MissNone
	}
}

// Classify computes the raw daily status from the recorded punches and the
// employee's work window. Rules, in order:
//
//  1. Both punches missing: absent.
//  2. Clock-in missing but clock-out present: late. Lateness cannot be
//     computed without an arrival time, so it stays zero; overtime is still
//     computed from the clock-out.
//  3. Clock-in present: lateness is the arrival delta past schedule start
//     minus the grace period, floored at zero; overtime is the departure
//     delta past schedule end when a clock-out exists.
func Classify(clockIn, clockOut *schedule.TimeOfDay, sched schedule.WorkSchedule, graceMinutes int) Classification {
	if clockIn == nil && clockOut == nil {
		return Classification{
			Status:         attendance.StatusAbsent,
			MissedClockIn:  true,
			MissedClockOut: true,
		}
	}

	if clockIn == nil {
		return Classification{
			Status:          attendance.StatusLate,
			OvertimeMinutes: overtimeMinutes(clockOut, sched.ClockOut),
			MissedClockIn:   true,
		}
	}

	late := lateMinutes(*clockIn, sched.ClockIn, graceMinutes)

	status := attendance.StatusPresent
	if late > 0 {
		status = attendance.StatusLate
	}

	return Classification{
		Status:          status,
		LateMinutes:     late,
		OvertimeMinutes: overtimeMinutes(clockOut, sched.ClockOut),
		MissedClockOut:  clockOut == nil,
	}
}

// LateMinutes is the stand-alone lateness helper. grace < 0 selects the
// stand-alone default of 10 minutes; the pipeline always passes its own.
func LateMinutes(clockIn, scheduleStart schedule.TimeOfDay, grace int) int {
	if grace < 0 {
		grace = StandaloneGraceMinutes
	}
	return lateMinutes(clockIn, scheduleStart, grace)
}

func lateMinutes(clockIn, scheduleStart schedule.TimeOfDay, grace int) int {
	late := int(clockIn-scheduleStart) - grace
	if late < 0 {
		return 0
	}
	return late
}

func overtimeMinutes(clockOut *schedule.TimeOfDay, scheduleEnd schedule.TimeOfDay) int {
	if clockOut == nil {
		return 0
	}
	overtime := int(*clockOut - scheduleEnd)
	if overtime < 0 {
		return 0
	}
	return overtime
}
