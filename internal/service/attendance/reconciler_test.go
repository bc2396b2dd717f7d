package attendance

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/attendance"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/employee"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/leave"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ===== IN-MEMORY COLLABORATORS =====

type fakeAttendanceRepo struct {
	facts map[string]attendance.AttendanceFact
	seq   int

	// failUpserts makes the next N Upsert calls fail.
	failUpserts int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{facts: make(map[string]attendance.AttendanceFact)}
}

func factKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, fact attendance.AttendanceFact) (attendance.AttendanceFact, error) {
	if f.failUpserts > 0 {
		f.failUpserts--
		return attendance.AttendanceFact{}, errors.New("connection reset by peer")
	}
	key := factKey(fact.EmployeeID, fact.Date)
	if existing, ok := f.facts[key]; ok {
		fact.ID = existing.ID
		fact.CreatedAt = existing.CreatedAt
	} else {
		f.seq++
		fact.ID = "fact-" + time.Time{}.AddDate(0, 0, f.seq).Format("02")
		fact.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	f.facts[key] = fact
	return fact, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.AttendanceFact, error) {
	if fact, ok := f.facts[factKey(employeeID, date)]; ok {
		return &fact, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceFact, int64, error) {
	var out []attendance.AttendanceFact
	for _, fact := range f.facts {
		if filter.EmployeeID != "" && fact.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.MonthKey != "" && fact.MonthKey != filter.MonthKey {
			continue
		}
		out = append(out, fact)
	}
	return out, int64(len(out)), nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee // keyed by code
	counters  map[string]employee.MonthlyDeductionCounter
	persists  int
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{
		employees: make(map[string]employee.Employee),
		counters:  make(map[string]employee.MonthlyDeductionCounter),
	}
	for _, emp := range employees {
		repo.employees[emp.EmployeeCode] = emp
	}
	return repo
}

func (f *fakeEmployeeRepo) GetByCode(_ context.Context, code string) (employee.Employee, error) {
	emp, ok := f.employees[code]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if counter, ok := f.counters[emp.ID]; ok {
		emp.DeductionCounter = counter
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) PersistDeductionCounter(_ context.Context, employeeID string, counter employee.MonthlyDeductionCounter) error {
	f.counters[employeeID] = counter
	f.persists++
	return nil
}

// ===== HELPERS =====

func sheetBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func uploadOf(name string, data []byte) []attendance.UploadFile {
	return []attendance.UploadFile{{Filename: name, Reader: bytes.NewReader(data)}}
}

var testHeader = []interface{}{"AC-No.", "Name", "Date", "C/In", "C/Out"}

func newTestService(attRepo *fakeAttendanceRepo, empRepo *fakeEmployeeRepo, forms ...leave.LeaveForm) *ReconciliationServiceImpl {
	passthrough := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
	return NewReconciliationService(
		attRepo,
		empRepo,
		&fakeLeaveRepo{forms: forms},
		passthrough,
		DefaultReconcilerConfig(),
		slog.New(slog.DiscardHandler),
	)
}

var testProv = attendance.Provenance{
	UploadedBy: "hr-admin",
	UploadedAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
	Label:      "december terminal export",
}

// ===== TESTS =====

func TestReconcileBatch_EndToEnd(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	empRepo := newFakeEmployeeRepo(
		employee.Employee{ID: "emp-dana", EmployeeCode: "1001", FullName: "Dana Hale"},
		employee.Employee{ID: "emp-omar", EmployeeCode: "1002", FullName: "Omar Riad", Schedule: &schedule.WorkSchedule{
			ClockIn:  schedule.NewTimeOfDay(9, 0),
			ClockOut: schedule.NewTimeOfDay(17, 0),
		}},
	)
	vacation := leave.LeaveForm{
		ID: "vac-1", EmployeeID: "emp-omar", Type: leave.LeaveTypeVacation,
		StartDate: day(2025, 12, 23), EndDate: day(2025, 12, 23),
		Status: leave.LeaveStatusApproved,
	}
	svc := newTestService(attRepo, empRepo, vacation)

	data := sheetBytes(t, [][]interface{}{
		testHeader,
		{"1001", "Dana Hale", "22-Dec-25", "10:05", "20:00"}, // Monday, present + overtime
		{"1001", "Dana Hale", "23-Dec-25", "10:30", ""},      // late, missed clock-out
		{"1001", "Dana Hale", "24-Dec-25", "", ""},           // absent, both missed
		{"1001", "Dana Hale", "26-Dec-25", "10:00", "19:00"}, // Friday, weekend
		{"1002", "Omar Riad", "23-Dec-25", "", ""},           // covered by vacation
		{"9999", "Ghost", "22-Dec-25", "10:00", "19:00"},     // unknown code
		{"1001", "Dana Hale", "31-Feb-2025", "10:00", ""},    // invalid date
	})

	report, err := svc.ReconcileBatch(context.Background(), uploadOf("dec.xlsx", data), testProv)
	require.NoError(t, err)

	assert.NotEmpty(t, report.BatchID)
	assert.Equal(t, 1, report.TotalFiles)
	assert.Equal(t, 1, report.ProcessedFiles)
	assert.Equal(t, 7, report.TotalRecords)
	assert.Equal(t, 4, report.SuccessfulRecords)
	assert.Equal(t, 1, report.FailedRecords)
	assert.Equal(t, 1, report.WeekendSkipped)

	require.Len(t, report.UnmatchedCodes, 1)
	assert.Equal(t, "9999", report.UnmatchedCodes[0].Code)
	assert.Equal(t, "Ghost", report.UnmatchedCodes[0].Name)
	assert.Equal(t, "dec.xlsx", report.UnmatchedCodes[0].File)

	require.Len(t, report.Summary, 1)
	summary := report.Summary[0]
	assert.Equal(t, 7, summary.TotalRows)
	assert.Equal(t, 6, summary.ValidRows)
	assert.Equal(t, 4, summary.Saved)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.WeekendSkipped)
	assert.Equal(t, 1, summary.Errors)

	require.Len(t, report.RowErrors, 1)
	assert.Equal(t, 8, report.RowErrors[0].Row)

	// Monday: present with an hour of overtime, no deduction.
	monday := attRepo.facts[factKey("emp-dana", day(2025, 12, 22))]
	assert.Equal(t, attendance.StatusPresent, monday.Status)
	assert.Equal(t, 60, monday.OvertimeMinutes)
	assert.True(t, monday.Deduction.IsZero())
	assert.Equal(t, "2025-12", monday.MonthKey)
	assert.Equal(t, "hr-admin", monday.UploadedBy)
	assert.Equal(t, "dec.xlsx", monday.SourceFile)

	// Tuesday: 30 minutes past a 10:00 start minus 15 grace, clock-out
	// missing: first miss of the month.
	tuesday := attRepo.facts[factKey("emp-dana", day(2025, 12, 23))]
	assert.Equal(t, attendance.StatusLate, tuesday.Status)
	assert.Equal(t, 15, tuesday.LateMinutes)
	assert.True(t, tuesday.MissedClockOut)
	assert.Equal(t, attendance.MissClockOut, tuesday.FingerprintMiss)
	assert.True(t, tuesday.Deduction.Equal(dec("0.25")), "got %s", tuesday.Deduction)

	// Wednesday: both punches missing, second and third miss: 0.5 + 0.75.
	wednesday := attRepo.facts[factKey("emp-dana", day(2025, 12, 24))]
	assert.Equal(t, attendance.StatusAbsent, wednesday.Status)
	assert.Equal(t, attendance.MissBoth, wednesday.FingerprintMiss)
	assert.True(t, wednesday.Deduction.Equal(dec("1.25")), "got %s", wednesday.Deduction)

	// Vacation day: status overridden, no deduction even with both missing.
	vacationDay := attRepo.facts[factKey("emp-omar", day(2025, 12, 23))]
	assert.Equal(t, attendance.StatusOnLeave, vacationDay.Status)
	require.NotNil(t, vacationDay.LeaveFormID)
	assert.Equal(t, "vac-1", *vacationDay.LeaveFormID)
	assert.True(t, vacationDay.Deduction.IsZero())

	// No facts for the weekend row or the unknown code.
	_, weekendExists := attRepo.facts[factKey("emp-dana", day(2025, 12, 26))]
	assert.False(t, weekendExists)
	assert.Len(t, attRepo.facts, 4)

	counter := empRepo.counters["emp-dana"]
	assert.Equal(t, "2025-12", counter.MonthKey)
	assert.Equal(t, 3, counter.MissCount)
	assert.True(t, counter.TotalDeduction.Equal(dec("1.5")))

	_, omarCounted := empRepo.counters["emp-omar"]
	assert.False(t, omarCounted, "leave-covered day must not touch the counter")
}

func TestReconcileBatch_IdenticalRerunProducesIdenticalFacts(t *testing.T) {
	rows := [][]interface{}{
		testHeader,
		{"1001", "Dana Hale", "22-Dec-25", "10:30", ""},
		{"1001", "Dana Hale", "23-Dec-25", "", ""},
	}
	attRepo := newFakeAttendanceRepo()
	empRepo := newFakeEmployeeRepo(employee.Employee{ID: "emp-dana", EmployeeCode: "1001", FullName: "Dana Hale"})
	svc := newTestService(attRepo, empRepo)

	_, err := svc.ReconcileBatch(context.Background(), uploadOf("dec.xlsx", sheetBytes(t, rows)), testProv)
	require.NoError(t, err)

	firstFacts := make(map[string]attendance.AttendanceFact, len(attRepo.facts))
	for k, v := range attRepo.facts {
		firstFacts[k] = v
	}
	firstCounter := empRepo.counters["emp-dana"]

	_, err = svc.ReconcileBatch(context.Background(), uploadOf("dec.xlsx", sheetBytes(t, rows)), testProv)
	require.NoError(t, err)

	assert.Equal(t, firstFacts, attRepo.facts)

	counter := empRepo.counters["emp-dana"]
	assert.Equal(t, firstCounter.MissCount, counter.MissCount)
	assert.True(t, firstCounter.TotalDeduction.Equal(counter.TotalDeduction))
}

func TestReconcileBatch_CorrectedUploadReplacesNotAccumulates(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	empRepo := newFakeEmployeeRepo(employee.Employee{ID: "emp-dana", EmployeeCode: "1001", FullName: "Dana Hale"})
	svc := newTestService(attRepo, empRepo)

	// First export is missing both punches: 0.25 + 0.5 charged.
	first := sheetBytes(t, [][]interface{}{
		testHeader,
		{"1001", "Dana Hale", "22-Dec-25", "", ""},
	})
	_, err := svc.ReconcileBatch(context.Background(), uploadOf("dec.xlsx", first), testProv)
	require.NoError(t, err)

	fact := attRepo.facts[factKey("emp-dana", day(2025, 12, 22))]
	assert.True(t, fact.Deduction.Equal(dec("0.75")))
	assert.Equal(t, 2, empRepo.counters["emp-dana"].MissCount)

	// Corrected export has both punches: the prior charge is backed out.
	corrected := sheetBytes(t, [][]interface{}{
		testHeader,
		{"1001", "Dana Hale", "22-Dec-25", "10:00", "19:00"},
	})
	_, err = svc.ReconcileBatch(context.Background(), uploadOf("dec-corrected.xlsx", corrected), testProv)
	require.NoError(t, err)

	fact = attRepo.facts[factKey("emp-dana", day(2025, 12, 22))]
	assert.Equal(t, attendance.StatusPresent, fact.Status)
	assert.Equal(t, attendance.MissNone, fact.FingerprintMiss)
	assert.True(t, fact.Deduction.IsZero())
	assert.Equal(t, "dec-corrected.xlsx", fact.SourceFile)

	counter := empRepo.counters["emp-dana"]
	assert.Zero(t, counter.MissCount)
	assert.True(t, counter.TotalDeduction.IsZero())
}

func TestReconcileBatch_MonthRolloverWithinBatch(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	empRepo := newFakeEmployeeRepo(employee.Employee{ID: "emp-dana", EmployeeCode: "1001", FullName: "Dana Hale"})
	svc := newTestService(attRepo, empRepo)

	data := sheetBytes(t, [][]interface{}{
		testHeader,
		{"1001", "Dana Hale", "26-Jan-26", "", ""}, // Monday: misses 1 and 2 of January
		{"1001", "Dana Hale", "2-Feb-26", "", "19:00"}, // Monday: first miss of February
	})

	_, err := svc.ReconcileBatch(context.Background(), uploadOf("jan-feb.xlsx", data), testProv)
	require.NoError(t, err)

	january := attRepo.facts[factKey("emp-dana", day(2026, 1, 26))]
	assert.True(t, january.Deduction.Equal(dec("0.75")))

	// The rollover happens lazily on February's first miss: the schedule
	// restarts at 0.25 regardless of January's ending count.
	february := attRepo.facts[factKey("emp-dana", day(2026, 2, 2))]
	assert.True(t, february.Deduction.Equal(dec("0.25")), "got %s", february.Deduction)

	counter := empRepo.counters["emp-dana"]
	assert.Equal(t, "2026-02", counter.MonthKey)
	assert.Equal(t, 1, counter.MissCount)
	assert.True(t, counter.TotalDeduction.Equal(dec("0.25")))
}

func TestReconcileBatch_StructuralFailureFailsFileOnly(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	empRepo := newFakeEmployeeRepo(employee.Employee{ID: "emp-dana", EmployeeCode: "1001", FullName: "Dana Hale"})
	svc := newTestService(attRepo, empRepo)

	broken := sheetBytes(t, [][]interface{}{
		{"Foo", "Bar"},
		{"x", "y"},
	})
	good := sheetBytes(t, [][]interface{}{
		testHeader,
		{"1001", "Dana Hale", "22-Dec-25", "10:00", "19:00"},
	})

	files := []attendance.UploadFile{
		{Filename: "broken.xlsx", Reader: bytes.NewReader(broken)},
		{Filename: "good.xlsx", Reader: bytes.NewReader(good)},
	}

	report, err := svc.ReconcileBatch(context.Background(), files, testProv)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalFiles)
	assert.Equal(t, 1, report.ProcessedFiles)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "broken.xlsx", report.Errors[0].File)
	assert.Equal(t, 1, report.SuccessfulRecords)
	assert.Len(t, attRepo.facts, 1)
}

func TestReconcileBatch_FailedSaveDoesNotLeakCounter(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	attRepo.failUpserts = 1
	empRepo := newFakeEmployeeRepo(employee.Employee{ID: "emp-dana", EmployeeCode: "1001", FullName: "Dana Hale"})
	svc := newTestService(attRepo, empRepo)

	// Two identical single-miss rows. The first row's save fails, so its
	// increment must not carry into the second row's charge.
	data := sheetBytes(t, [][]interface{}{
		testHeader,
		{"1001", "Dana Hale", "23-Dec-25", "10:00", ""},
		{"1001", "Dana Hale", "24-Dec-25", "10:00", ""},
	})

	report, err := svc.ReconcileBatch(context.Background(), uploadOf("dec.xlsx", data), testProv)
	require.NoError(t, err)

	assert.Equal(t, 1, report.FailedRecords)
	assert.Equal(t, 1, report.SuccessfulRecords)
	require.Len(t, report.RowErrors, 1)
	assert.Equal(t, 2, report.RowErrors[0].Row)

	require.Len(t, attRepo.facts, 1)
	saved := attRepo.facts[factKey("emp-dana", day(2025, 12, 24))]
	assert.True(t, saved.Deduction.Equal(dec("0.25")), "got %s", saved.Deduction)

	counter := empRepo.counters["emp-dana"]
	assert.Equal(t, 1, counter.MissCount)
	assert.True(t, counter.TotalDeduction.Equal(dec("0.25")), "got %s", counter.TotalDeduction)
}

func TestListAttendance_MapsFactsToResponses(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	empRepo := newFakeEmployeeRepo(employee.Employee{ID: "emp-dana", EmployeeCode: "1001", FullName: "Dana Hale"})
	svc := newTestService(attRepo, empRepo)

	data := sheetBytes(t, [][]interface{}{
		testHeader,
		{"1001", "Dana Hale", "22-Dec-25", "10:30", ""},
	})
	_, err := svc.ReconcileBatch(context.Background(), uploadOf("dec.xlsx", data), testProv)
	require.NoError(t, err)

	responses, total, err := svc.ListAttendance(context.Background(), attendance.AttendanceFilter{EmployeeID: "emp-dana"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, responses, 1)

	resp := responses[0]
	assert.Equal(t, "2025-12-22", resp.Date)
	assert.Equal(t, "2025-12", resp.Month)
	require.NotNil(t, resp.ClockIn)
	assert.Equal(t, "10:30", *resp.ClockIn)
	assert.Nil(t, resp.ClockOut)
	assert.Equal(t, attendance.StatusLate, resp.Status)
	assert.True(t, resp.MissedClockOut)
	assert.Equal(t, "dec.xlsx", resp.SourceFile)
}

func TestReconcileBatch_EmptyBatchRejected(t *testing.T) {
	svc := newTestService(newFakeAttendanceRepo(), newFakeEmployeeRepo())

	_, err := svc.ReconcileBatch(context.Background(), nil, testProv)
	assert.ErrorIs(t, err, attendance.ErrNoFilesProvided)
}
