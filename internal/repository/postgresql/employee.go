package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/employee"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/schedule"
	"github.com/shiftsync-hr/attendance-recon-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, employee_code, full_name,
	schedule_start_minutes, schedule_end_minutes,
	deduction_month_key, deduction_miss_count, deduction_total,
	created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var startMinutes, endMinutes *int
	var monthKey *string
	var total *decimal.Decimal

	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName,
		&startMinutes, &endMinutes,
		&monthKey, &emp.DeductionCounter.MissCount, &total,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	if startMinutes != nil && endMinutes != nil {
		in := schedule.TimeOfDay(*startMinutes)
		out := schedule.TimeOfDay(*endMinutes)
		// An out-of-range stored window falls back to the default schedule.
		if in.Valid() && out.Valid() {
			emp.Schedule = &schedule.WorkSchedule{ClockIn: in, ClockOut: out}
		}
	}
	if monthKey != nil {
		emp.DeductionCounter.MonthKey = *monthKey
	}
	if total != nil {
		emp.DeductionCounter.TotalDeduction = *total
	} else {
		emp.DeductionCounter.TotalDeduction = decimal.Zero
	}

	return emp, nil
}

// GetByCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE employee_code = $1
		LIMIT 1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1
		LIMIT 1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return emp, nil
}

// PersistDeductionCounter implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) PersistDeductionCounter(ctx context.Context, employeeID string, counter employee.MonthlyDeductionCounter) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET deduction_month_key  = $2,
			deduction_miss_count = $3,
			deduction_total      = $4,
			updated_at           = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, employeeID, counter.MonthKey, counter.MissCount, counter.TotalDeduction)
	if err != nil {
		return fmt.Errorf("failed to persist deduction counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}
