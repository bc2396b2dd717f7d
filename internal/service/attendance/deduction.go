package attendance

import (
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/attendance"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// Progressive per-miss deduction schedule, in fractions of a day's pay.
// The Nth miss in a month deducts deductionSteps[min(N,4)-1].
var deductionSteps = []decimal.Decimal{
	decimal.RequireFromString("0.25"),
	decimal.RequireFromString("0.5"),
	decimal.RequireFromString("0.75"),
	decimal.RequireFromString("1"),
}

// MissResult is the outcome of charging one fingerprint miss (or two, for a
// both-punches miss) against an employee's monthly counter.
type MissResult struct {
	// Deduction charged by this call; the sum of both increments when the
	// miss type is "both".
	Deduction decimal.Decimal

	MissCount    int
	MonthlyTotal decimal.Decimal
}

// ApplyMiss mutates the counter in place: rolls it over when the month key
// changed, then applies one increment per missing punch against the
// progressive schedule. "both" counts as two sequential increments, each
// rated against the running post-increment count. Persisting the counter is
// the caller's responsibility.
//
// Never call this for a day whose status was overridden by an approved leave
// form, nor when no punch was missed.
func ApplyMiss(counter *employee.MonthlyDeductionCounter, miss attendance.FingerprintMiss, monthKey string) MissResult {
	// Lazy month rollover: the first miss processed in a new month resets
	// the counter before anything is charged.
	if counter.MonthKey != monthKey {
		counter.MonthKey = monthKey
		counter.MissCount = 0
		counter.TotalDeduction = decimal.Zero
	}

	increments := missIncrements(miss)

	charged := decimal.Zero
	for i := 0; i < increments; i++ {
		counter.MissCount++
		step := counter.MissCount
		if step > len(deductionSteps) {
			step = len(deductionSteps)
		}
		amount := deductionSteps[step-1]
		charged = charged.Add(amount)
		counter.TotalDeduction = counter.TotalDeduction.Add(amount)
	}

	return MissResult{
		Deduction:    charged,
		MissCount:    counter.MissCount,
		MonthlyTotal: counter.TotalDeduction,
	}
}

func missIncrements(miss attendance.FingerprintMiss) int {
	switch miss {
	case attendance.MissBoth:
		return 2
	case attendance.MissClockIn, attendance.MissClockOut:
		return 1
	default:
		return 0
	}
}

// BackOutMisses reverses a previously charged fact's increments from the
// counter. Used when a corrected file replaces an existing (employee, date)
// record: the replacement must not accumulate on top of the old charge, and
// re-running an identical batch must reproduce identical facts.
func BackOutMisses(counter *employee.MonthlyDeductionCounter, priorMiss attendance.FingerprintMiss, priorDeduction decimal.Decimal) {
	counter.MissCount -= missIncrements(priorMiss)
	if counter.MissCount < 0 {
		counter.MissCount = 0
	}
	counter.TotalDeduction = counter.TotalDeduction.Sub(priorDeduction)
	if counter.TotalDeduction.IsNegative() {
		counter.TotalDeduction = decimal.Zero
	}
}
