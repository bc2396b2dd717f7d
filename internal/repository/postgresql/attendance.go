package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/attendance"
	"github.com/shiftsync-hr/attendance-recon-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Upsert implements attendance.AttendanceRepository. The (employee_id, date)
// unique constraint makes re-uploads replace the prior record in place.
func (a *attendanceRepository) Upsert(ctx context.Context, fact attendance.AttendanceFact) (attendance.AttendanceFact, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_facts (
			employee_id, date, month_key, clock_in, clock_out,
			status, late_minutes, overtime_minutes,
			missed_clock_in, missed_clock_out, fingerprint_miss,
			deduction, leave_form_id,
			uploaded_by, uploaded_at, source_file
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			month_key        = EXCLUDED.month_key,
			clock_in         = EXCLUDED.clock_in,
			clock_out        = EXCLUDED.clock_out,
			status           = EXCLUDED.status,
			late_minutes     = EXCLUDED.late_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			missed_clock_in  = EXCLUDED.missed_clock_in,
			missed_clock_out = EXCLUDED.missed_clock_out,
			fingerprint_miss = EXCLUDED.fingerprint_miss,
			deduction        = EXCLUDED.deduction,
			leave_form_id    = EXCLUDED.leave_form_id,
			uploaded_by      = EXCLUDED.uploaded_by,
			uploaded_at      = EXCLUDED.uploaded_at,
			source_file      = EXCLUDED.source_file,
			updated_at       = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		fact.EmployeeID,
		fact.Date,
		fact.MonthKey,
		fact.ClockIn,
		fact.ClockOut,
		fact.Status,
		fact.LateMinutes,
		fact.OvertimeMinutes,
		fact.MissedClockIn,
		fact.MissedClockOut,
		fact.FingerprintMiss,
		fact.Deduction,
		fact.LeaveFormID,
		fact.UploadedBy,
		fact.UploadedAt,
		fact.SourceFile,
	).Scan(&fact.ID, &fact.CreatedAt, &fact.UpdatedAt)

	if err != nil {
		return attendance.AttendanceFact{}, fmt.Errorf("failed to upsert attendance fact: %w", err)
	}

	return fact, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceFact, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, date, month_key, clock_in, clock_out,
			   status, late_minutes, overtime_minutes,
			   missed_clock_in, missed_clock_out, fingerprint_miss,
			   deduction, leave_form_id,
			   uploaded_by, uploaded_at, source_file,
			   created_at, updated_at
		FROM attendance_facts
		WHERE employee_id = $1
		  AND date = $2
		LIMIT 1
	`

	var fact attendance.AttendanceFact
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&fact.ID, &fact.EmployeeID, &fact.Date, &fact.MonthKey, &fact.ClockIn, &fact.ClockOut,
		&fact.Status, &fact.LateMinutes, &fact.OvertimeMinutes,
		&fact.MissedClockIn, &fact.MissedClockOut, &fact.FingerprintMiss,
		&fact.Deduction, &fact.LeaveFormID,
		&fact.UploadedBy, &fact.UploadedAt, &fact.SourceFile,
		&fact.CreatedAt, &fact.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance fact: %w", err)
	}

	return &fact, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceFact, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := "WHERE 1=1"
	args := []interface{}{}
	argID := 1

	if filter.EmployeeID != "" {
		conditions += fmt.Sprintf(" AND employee_id = $%d", argID)
		args = append(args, filter.EmployeeID)
		argID++
	}
	if filter.MonthKey != "" {
		conditions += fmt.Sprintf(" AND month_key = $%d", argID)
		args = append(args, filter.MonthKey)
		argID++
	}
	if filter.Status != nil {
		conditions += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_facts " + conditions
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance facts: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, employee_id, date, month_key, clock_in, clock_out,
			   status, late_minutes, overtime_minutes,
			   missed_clock_in, missed_clock_out, fingerprint_miss,
			   deduction, leave_form_id,
			   uploaded_by, uploaded_at, source_file,
			   created_at, updated_at
		FROM attendance_facts
	` + conditions + fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, filter.Offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance facts: %w", err)
	}
	defer rows.Close()

	var facts []attendance.AttendanceFact
	for rows.Next() {
		var fact attendance.AttendanceFact
		if err := rows.Scan(
			&fact.ID, &fact.EmployeeID, &fact.Date, &fact.MonthKey, &fact.ClockIn, &fact.ClockOut,
			&fact.Status, &fact.LateMinutes, &fact.OvertimeMinutes,
			&fact.MissedClockIn, &fact.MissedClockOut, &fact.FingerprintMiss,
			&fact.Deduction, &fact.LeaveFormID,
			&fact.UploadedBy, &fact.UploadedAt, &fact.SourceFile,
			&fact.CreatedAt, &fact.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance fact: %w", err)
		}
		facts = append(facts, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance facts: %w", err)
	}

	return facts, total, nil
}
