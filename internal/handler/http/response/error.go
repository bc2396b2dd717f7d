package response

import (
	"errors"
	"net/http"

	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/attendance"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/employee"
	"github.com/shiftsync-hr/attendance-recon-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNoFilesProvided):
		BadRequest(w, "No files provided in the upload batch", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
