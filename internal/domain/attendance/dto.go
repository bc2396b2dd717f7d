package attendance

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// UploadFile is one spreadsheet in an import batch.
type UploadFile struct {
	Filename string
	Reader   io.Reader
}

// Provenance identifies who uploaded a batch and under what label.
type Provenance struct {
	UploadedBy string
	UploadedAt time.Time
	Label      string
}

// RunReport is the structured result of one import batch.
type RunReport struct {
	BatchID           string          `json:"batch_id"`
	TotalFiles        int             `json:"total_files"`
	ProcessedFiles    int             `json:"processed_files"`
	TotalRecords      int             `json:"total_records"`
	SuccessfulRecords int             `json:"successful_records"`
	FailedRecords     int             `json:"failed_records"`
	WeekendSkipped    int             `json:"weekend_skipped"`
	UnmatchedCodes    []UnmatchedCode `json:"unmatched_codes"`
	Errors            []FileError     `json:"errors"`
	RowErrors         []RowError      `json:"row_errors"`
	Summary           []FileSummary   `json:"summary"`
}

// UnmatchedCode is an employee code present in an export but unknown to the
// system. Not a parse error; reported separately.
type UnmatchedCode struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
	File string `json:"file"`
}

// FileError is a structural failure: the file could not be opened or has no
// recognizable required columns. It fails that file only.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// RowError is a row-level diagnostic surfaced in the report. Only the first
// few are kept; the per-file summary carries the full count.
type RowError struct {
	File  string `json:"file"`
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// FileSummary aggregates one file's outcome. TotalRows counts parsed rows
// before the weekend skip; weekend rows appear only in WeekendSkipped.
type FileSummary struct {
	Filename       string `json:"filename"`
	TotalRows      int    `json:"total_rows"`
	ValidRows      int    `json:"valid_rows"`
	Saved          int    `json:"saved"`
	Skipped        int    `json:"skipped"`
	WeekendSkipped int    `json:"weekend_skipped"`
	Errors         int    `json:"errors"`
}

// AttendanceFactResponse is the wire shape of one reconciled fact.
type AttendanceFactResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	Date            string          `json:"date"`
	Month           string          `json:"month"`
	ClockIn         *string         `json:"clock_in,omitempty"`
	ClockOut        *string         `json:"clock_out,omitempty"`
	Status          Status          `json:"status"`
	LateMinutes     int             `json:"late_minutes"`
	OvertimeMinutes int             `json:"overtime_minutes"`
	MissedClockIn   bool            `json:"missed_clock_in"`
	MissedClockOut  bool            `json:"missed_clock_out"`
	FingerprintMiss FingerprintMiss `json:"fingerprint_miss"`
	Deduction       decimal.Decimal `json:"deduction"`
	LeaveFormID     *string         `json:"leave_form_id,omitempty"`
	UploadedBy      string          `json:"uploaded_by,omitempty"`
	SourceFile      string          `json:"source_file"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

func ToFactResponse(fact AttendanceFact) AttendanceFactResponse {
	resp := AttendanceFactResponse{
		ID:              fact.ID,
		EmployeeID:      fact.EmployeeID,
		Date:            fact.Date.Format("2006-01-02"),
		Month:           fact.MonthKey,
		Status:          fact.Status,
		LateMinutes:     fact.LateMinutes,
		OvertimeMinutes: fact.OvertimeMinutes,
		MissedClockIn:   fact.MissedClockIn,
		MissedClockOut:  fact.MissedClockOut,
		FingerprintMiss: fact.FingerprintMiss,
		Deduction:       fact.Deduction,
		LeaveFormID:     fact.LeaveFormID,
		UploadedBy:      fact.UploadedBy,
		SourceFile:      fact.SourceFile,
		CreatedAt:       fact.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       fact.UpdatedAt.Format(time.RFC3339),
	}
	if fact.ClockIn != nil {
		in := fact.ClockIn.Format("15:04")
		resp.ClockIn = &in
	}
	if fact.ClockOut != nil {
		out := fact.ClockOut.Format("15:04")
		resp.ClockOut = &out
	}
	return resp
}

// AttendanceFilter narrows attendance list queries.
type AttendanceFilter struct {
	EmployeeID string
	MonthKey   string
	Status     *Status
	Limit      int
	Offset     int
}
