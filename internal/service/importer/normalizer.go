package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/schedule"
)

// Punch is one normalized attendance row from a terminal export.
type Punch struct {
	EmployeeCode string
	Name         string
	Date         time.Time
	ClockIn      *schedule.TimeOfDay
	ClockOut     *schedule.TimeOfDay

	// Row is the 1-based physical row in the source sheet, for diagnostics.
	Row int

	// NoClockData is set when both punches are absent, letting downstream
	// stages short-circuit.
	NoClockData bool
}

// RowError is a position-tagged parse failure for a single row. The row is
// skipped; the rest of the sheet continues.
type RowError struct {
	Row   int
	Error string
	Raw   string
}

// ParseResult is the outcome of normalizing one sheet.
type ParseResult struct {
	Records []Punch
	Errors  []RowError
}

// ValidateStructure opens the sheet far enough to check that the required
// columns (employee code, date, clock-in) can be resolved. Used by the
// orchestrator before committing to a full parse.
func ValidateStructure(r io.Reader, filename string) error {
	rows, err := ReadSheetRows(r, filename)
	if err != nil {
		return err
	}
	_, _, err = locateHeader(rows)
	return err
}

// Normalize parses a terminal export into typed punch rows. A single bad row
// is never fatal: it is recorded in Errors and skipped. Only a sheet that
// cannot be opened, or whose required columns cannot be resolved, errors.
func Normalize(r io.Reader, filename string) (ParseResult, error) {
	rows, err := ReadSheetRows(r, filename)
	if err != nil {
		return ParseResult{}, err
	}
	return NormalizeRows(rows)
}

// NormalizeRows is the matrix-level entry point, split out so tests and
// callers that already hold rows can reuse the cascade.
func NormalizeRows(rows [][]string) (ParseResult, error) {
	cols, headerIdx, err := locateHeader(rows)
	if err != nil {
		return ParseResult{}, err
	}

	result := parseRows(rows, cols, headerIdx)

	// Some legacy exports carry a banner row above the real header, which
	// makes the first resolution attempt succeed on coincidental names but
	// produce nothing usable. Retry once with the next row as the header.
	if len(result.Records) == 0 && headerIdx+1 < len(rows) {
		if retryCols := resolveColumns(rows[headerIdx+1]); retryCols.hasRequired() {
			if retry := parseRows(rows, retryCols, headerIdx+1); len(retry.Records) > 0 {
				return retry, nil
			}
		}
	}

	return result, nil
}

// locateHeader resolves the column map from the first row, falling back to
// the second row for exports with a title banner on top.
func locateHeader(rows [][]string) (columnMap, int, error) {
	if len(rows) == 0 {
		return columnMap{}, 0, fmt.Errorf("worksheet is empty")
	}

	cols := resolveColumns(rows[0])
	if cols.hasRequired() {
		return cols, 0, nil
	}

	if len(rows) > 1 {
		if fallback := resolveColumns(rows[1]); fallback.hasRequired() {
			return fallback, 1, nil
		}
	}

	return columnMap{}, 0, cols.missingRequired()
}

func parseRows(rows [][]string, cols columnMap, headerIdx int) ParseResult {
	var result ParseResult

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		if isBlankRow(row) {
			continue
		}

		code := cellValue(row, cols.code)
		rawDate := cellValue(row, cols.date)

		if code == "" || rawDate == "" {
			result.Errors = append(result.Errors, RowError{
				Row:   rowNum,
				Error: "missing employee code or date",
				Raw:   strings.Join(row, "|"),
			})
			continue
		}

		date, ok := ParseDate(rawDate)
		if !ok {
			result.Errors = append(result.Errors, RowError{
				Row:   rowNum,
				Error: fmt.Sprintf("unparseable date %q", rawDate),
				Raw:   strings.Join(row, "|"),
			})
			continue
		}

		punch := Punch{
			EmployeeCode: code,
			Name:         cellValue(row, cols.name),
			Date:         date,
			Row:          rowNum,
		}

		// An empty or malformed time cell means the punch was not recorded;
		// it is never a row error.
		if t, ok := ParseClockTime(cellValue(row, cols.clockIn)); ok {
			in := t
			punch.ClockIn = &in
		}
		if t, ok := ParseClockTime(cellValue(row, cols.clockOut)); ok {
			out := t
			punch.ClockOut = &out
		}
		punch.NoClockData = punch.ClockIn == nil && punch.ClockOut == nil

		result.Records = append(result.Records, punch)
	}

	return result
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
