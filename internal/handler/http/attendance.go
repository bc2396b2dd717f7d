package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/attendance"
	"github.com/shiftsync-hr/attendance-recon-go/internal/handler/http/response"
	"github.com/shiftsync-hr/attendance-recon-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	reconService attendance.ReconciliationService
	maxUploadMB  int
}

func NewAttendanceHandler(reconService attendance.ReconciliationService, maxUploadMB int) AttendanceHandler {
	return &attendanceHandlerImpl{
		reconService: reconService,
		maxUploadMB:  maxUploadMB,
	}
}

// Import implements AttendanceHandler. Accepts one or more terminal export
// spreadsheets under the "files" multipart field and responds with the batch
// run report.
func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(h.maxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		slog.Error("failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		response.BadRequest(w, "Field 'files' is required", nil)
		return
	}

	var files []attendance.UploadFile
	for _, header := range r.MultipartForm.File["files"] {
		if !validator.IsSupportedSpreadsheet(header.Filename) {
			response.BadRequest(w, "Unsupported file type: "+header.Filename, nil)
			return
		}
		file, err := header.Open()
		if err != nil {
			slog.Error("failed to open uploaded file", "file", header.Filename, "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		defer file.Close()
		files = append(files, attendance.UploadFile{
			Filename: header.Filename,
			Reader:   file,
		})
	}

	prov := attendance.Provenance{
		UploadedBy: r.FormValue("uploaded_by"),
		UploadedAt: time.Now().UTC(),
		Label:      r.FormValue("label"),
	}

	report, err := h.reconService.ReconcileBatch(r.Context(), files, prov)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reconciliation completed", report)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := attendance.AttendanceFilter{
		EmployeeID: query.Get("employee_id"),
		MonthKey:   query.Get("month"),
	}

	if filter.MonthKey != "" && !validator.IsValidMonthKey(filter.MonthKey) {
		response.BadRequest(w, "month must be formatted as YYYY-MM", nil)
		return
	}

	if status := query.Get("status"); status != "" {
		s := attendance.Status(status)
		filter.Status = &s
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(query.Get("offset")); err == nil {
		filter.Offset = offset
	}

	facts, total, err := h.reconService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, facts, &response.Meta{
		Limit:      filter.Limit,
		TotalItems: total,
	})
}
