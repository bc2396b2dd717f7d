package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/attendance"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/employee"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/leave"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/schedule"
	"github.com/shiftsync-hr/attendance-recon-go/internal/service/importer"
)

// maxReportedRowErrors caps the row-level diagnostics carried in the run
// report; per-file summaries keep the full counts.
const maxReportedRowErrors = 10

// TxRunner executes fn atomically; the postgresql package supplies the
// production implementation. A nil runner executes fn directly.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// ReconcilerConfig carries the pipeline's tunables. Values are fixed for the
// duration of one batch.
type ReconcilerConfig struct {
	GracePeriodMinutes int
	WeekendDays        []time.Weekday
	DefaultSchedule    schedule.WorkSchedule
}

// DefaultReconcilerConfig matches production reconciliation: 15 minute grace,
// Friday/Saturday weekends, 10:00-19:00 default hours.
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		GracePeriodMinutes: DefaultGracePeriodMinutes,
		WeekendDays:        []time.Weekday{time.Friday, time.Saturday},
		DefaultSchedule:    schedule.DefaultWorkSchedule,
	}
}

type ReconciliationServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	resolver *LeaveResolver
	tx       TxRunner
	cfg      ReconcilerConfig
	weekends map[time.Weekday]bool
	logger   *slog.Logger
}

func NewReconciliationService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRepository,
	tx TxRunner,
	cfg ReconcilerConfig,
	logger *slog.Logger,
) *ReconciliationServiceImpl {
	weekends := make(map[time.Weekday]bool, len(cfg.WeekendDays))
	for _, day := range cfg.WeekendDays {
		weekends[day] = true
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconciliationServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		resolver:             NewLeaveResolver(leaveRepo),
		tx:                   tx,
		cfg:                  cfg,
		weekends:             weekends,
		logger:               logger,
	}
}

// batchState holds the per-batch caches. Rows are processed strictly
// sequentially, so the cached employee records (and their live deduction
// counters) see every mutation in row order.
type batchState struct {
	report    attendance.RunReport
	employees map[string]*employee.Employee
	unmatched map[string]bool
}

// ReconcileBatch implements attendance.ReconciliationService.
func (s *ReconciliationServiceImpl) ReconcileBatch(ctx context.Context, files []attendance.UploadFile, prov attendance.Provenance) (attendance.RunReport, error) {
	if len(files) == 0 {
		return attendance.RunReport{}, attendance.ErrNoFilesProvided
	}
	if prov.UploadedAt.IsZero() {
		prov.UploadedAt = time.Now().UTC()
	}

	state := &batchState{
		report: attendance.RunReport{
			BatchID:        uuid.NewString(),
			TotalFiles:     len(files),
			UnmatchedCodes: []attendance.UnmatchedCode{},
			Errors:         []attendance.FileError{},
			RowErrors:      []attendance.RowError{},
			Summary:        []attendance.FileSummary{},
		},
		employees: make(map[string]*employee.Employee),
		unmatched: make(map[string]bool),
	}

	for _, file := range files {
		s.reconcileFile(ctx, state, file, prov)
	}

	s.logger.Info("reconciliation batch finished",
		slog.String("batch_id", state.report.BatchID),
		slog.Int("files", state.report.TotalFiles),
		slog.Int("processed_files", state.report.ProcessedFiles),
		slog.Int("saved", state.report.SuccessfulRecords),
		slog.Int("failed", state.report.FailedRecords),
		slog.Int("weekend_skipped", state.report.WeekendSkipped),
		slog.Int("unmatched", len(state.report.UnmatchedCodes)),
	)

	return state.report, nil
}

func (s *ReconciliationServiceImpl) reconcileFile(ctx context.Context, state *batchState, file attendance.UploadFile, prov attendance.Provenance) {
	report := &state.report

	data, err := io.ReadAll(file.Reader)
	if err != nil {
		report.Errors = append(report.Errors, attendance.FileError{File: file.Filename, Error: fmt.Sprintf("failed to read file: %v", err)})
		return
	}

	// Cheap structural check before committing to a full parse: the file
	// must expose at least employee code, date and clock-in columns.
	if err := importer.ValidateStructure(bytes.NewReader(data), file.Filename); err != nil {
		report.Errors = append(report.Errors, attendance.FileError{File: file.Filename, Error: err.Error()})
		return
	}

	parsed, err := importer.Normalize(bytes.NewReader(data), file.Filename)
	if err != nil {
		report.Errors = append(report.Errors, attendance.FileError{File: file.Filename, Error: err.Error()})
		return
	}
	report.ProcessedFiles++

	summary := attendance.FileSummary{
		Filename:  file.Filename,
		TotalRows: len(parsed.Records) + len(parsed.Errors),
		ValidRows: len(parsed.Records),
		Errors:    len(parsed.Errors),
	}
	report.TotalRecords += summary.TotalRows
	report.FailedRecords += len(parsed.Errors)

	for _, rowErr := range parsed.Errors {
		if len(report.RowErrors) < maxReportedRowErrors {
			report.RowErrors = append(report.RowErrors, attendance.RowError{
				File:  file.Filename,
				Row:   rowErr.Row,
				Error: rowErr.Error,
			})
		}
	}

	for _, punch := range parsed.Records {
		// Weekend rows are skipped entirely: no record, no deduction.
		if s.weekends[punch.Date.Weekday()] {
			summary.WeekendSkipped++
			report.WeekendSkipped++
			continue
		}

		emp, ok, err := s.resolveEmployee(ctx, state, punch, file.Filename)
		if err != nil {
			s.recordRowFailure(report, &summary, file.Filename, punch.Row, err)
			continue
		}
		if !ok {
			summary.Skipped++
			continue
		}

		if err := s.reconcileRow(ctx, emp, punch, file.Filename, prov); err != nil {
			s.recordRowFailure(report, &summary, file.Filename, punch.Row, err)
			continue
		}

		summary.Saved++
		report.SuccessfulRecords++
	}

	s.logger.Info("reconciled file",
		slog.String("file", file.Filename),
		slog.Int("rows", summary.TotalRows),
		slog.Int("saved", summary.Saved),
		slog.Int("errors", summary.Errors),
	)

	report.Summary = append(report.Summary, summary)
}

// resolveEmployee looks up the punch's employee code, caching hits for the
// batch and recording unknown codes once per file.
func (s *ReconciliationServiceImpl) resolveEmployee(ctx context.Context, state *batchState, punch importer.Punch, filename string) (*employee.Employee, bool, error) {
	if emp, cached := state.employees[punch.EmployeeCode]; cached {
		return emp, true, nil
	}

	emp, err := s.EmployeeRepository.GetByCode(ctx, punch.EmployeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			key := punch.EmployeeCode + "|" + filename
			if !state.unmatched[key] {
				state.unmatched[key] = true
				state.report.UnmatchedCodes = append(state.report.UnmatchedCodes, attendance.UnmatchedCode{
					Code: punch.EmployeeCode,
					Name: punch.Name,
					File: filename,
				})
			}
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to resolve employee %q: %w", punch.EmployeeCode, err)
	}

	state.employees[punch.EmployeeCode] = &emp
	return &emp, true, nil
}

// reconcileRow runs classify, cross-reference and conditional deduction for
// one punch row, then upserts the resulting fact keyed by (employee, date).
func (s *ReconciliationServiceImpl) reconcileRow(ctx context.Context, emp *employee.Employee, punch importer.Punch, filename string, prov attendance.Provenance) error {
	sched := emp.WorkScheduleOr(s.cfg.DefaultSchedule)

	classified := Classify(punch.ClockIn, punch.ClockOut, sched, s.cfg.GracePeriodMinutes)

	fact := attendance.AttendanceFact{
		EmployeeID:      emp.ID,
		Date:            punch.Date,
		MonthKey:        attendance.MonthKeyOf(punch.Date),
		Status:          classified.Status,
		LateMinutes:     classified.LateMinutes,
		OvertimeMinutes: classified.OvertimeMinutes,
		MissedClockIn:   classified.MissedClockIn,
		MissedClockOut:  classified.MissedClockOut,
		FingerprintMiss: classified.Miss(),
		UploadedBy:      prov.UploadedBy,
		UploadedAt:      prov.UploadedAt,
		SourceFile:      filename,
	}
	if punch.ClockIn != nil {
		in := punch.ClockIn.At(punch.Date)
		fact.ClockIn = &in
	}
	if punch.ClockOut != nil {
		out := punch.ClockOut.At(punch.Date)
		fact.ClockOut = &out
	}

	match, err := s.resolver.FindCoveringLeave(ctx, emp.ID, punch.Date)
	if err != nil {
		return err
	}

	// A re-upload replaces the prior record for the same (employee, date).
	// When the miss profile is unchanged the prior charge stands untouched,
	// so identical batches reconcile to identical facts. When it changed,
	// the old charge is backed out before the new one is applied.
	//
	// All mutations happen on a copy of the cached counter; the cache takes
	// the new value only once the row's writes land, so a failed save never
	// leaks increments into later rows for the same employee.
	counter := emp.DeductionCounter
	counterDirty := false
	prior, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, punch.Date)
	if err != nil {
		return fmt.Errorf("failed to load prior attendance: %w", err)
	}
	priorCharged := prior != nil && prior.LeaveFormID == nil && prior.FingerprintMiss != attendance.MissNone
	unchanged := prior != nil && (prior.LeaveFormID == nil) == (match == nil) &&
		prior.FingerprintMiss == fact.FingerprintMiss

	switch {
	case match != nil:
		// Approved leave strictly overrides the classified status, and a
		// covered day never incurs a punch-miss deduction.
		fact.Status = match.Status
		fact.LeaveFormID = &match.Form.ID
		if priorCharged && counter.MonthKey == prior.MonthKey {
			BackOutMisses(&counter, prior.FingerprintMiss, prior.Deduction)
			counterDirty = true
		}
	case unchanged:
		fact.Deduction = prior.Deduction
	case fact.FingerprintMiss != attendance.MissNone:
		if priorCharged && counter.MonthKey == prior.MonthKey {
			BackOutMisses(&counter, prior.FingerprintMiss, prior.Deduction)
			counterDirty = true
		}
		result := ApplyMiss(&counter, fact.FingerprintMiss, fact.MonthKey)
		fact.Deduction = result.Deduction
		counterDirty = true
	default:
		if priorCharged && counter.MonthKey == prior.MonthKey {
			BackOutMisses(&counter, prior.FingerprintMiss, prior.Deduction)
			counterDirty = true
		}
	}

	save := func(ctx context.Context) error {
		if counterDirty {
			if err := s.EmployeeRepository.PersistDeductionCounter(ctx, emp.ID, counter); err != nil {
				return fmt.Errorf("failed to persist deduction counter: %w", err)
			}
		}
		if _, err := s.AttendanceRepository.Upsert(ctx, fact); err != nil {
			return fmt.Errorf("failed to upsert attendance: %w", err)
		}
		return nil
	}

	// The counter update and the fact it charged must land together.
	if s.tx != nil && counterDirty {
		err = s.tx(ctx, save)
	} else {
		err = save(ctx)
	}
	if err != nil {
		return err
	}

	emp.DeductionCounter = counter
	return nil
}

func (s *ReconciliationServiceImpl) recordRowFailure(report *attendance.RunReport, summary *attendance.FileSummary, filename string, row int, err error) {
	summary.Errors++
	report.FailedRecords++
	if len(report.RowErrors) < maxReportedRowErrors {
		report.RowErrors = append(report.RowErrors, attendance.RowError{
			File:  filename,
			Row:   row,
			Error: err.Error(),
		})
	}
}

// ListAttendance implements attendance.ReconciliationService.
func (s *ReconciliationServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceFactResponse, int64, error) {
	facts, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]attendance.AttendanceFactResponse, 0, len(facts))
	for _, fact := range facts {
		responses = append(responses, attendance.ToFactResponse(fact))
	}
	return responses, total, nil
}
