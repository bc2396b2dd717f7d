package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNoFilesProvided    = errors.New("no files provided in the upload batch")
)
