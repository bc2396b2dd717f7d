package http

import (
	"net/http"
	"strconv"

	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/report"
	"github.com/shiftsync-hr/attendance-recon-go/internal/handler/http/response"
	reportService "github.com/shiftsync-hr/attendance-recon-go/internal/service/report"
)

type ReportHandler interface {
	MonthlySummary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService *reportService.ReportServiceImpl
}

func NewReportHandler(service *reportService.ReportServiceImpl) ReportHandler {
	return &reportHandlerImpl{reportService: service}
}

// MonthlySummary implements ReportHandler.
func (h *reportHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	month, _ := strconv.Atoi(query.Get("month"))
	year, _ := strconv.Atoi(query.Get("year"))

	req := report.MonthlySummaryRequest{
		Month:      month,
		Year:       year,
		EmployeeID: query.Get("employee_id"),
	}

	summary, err := h.reportService.GetMonthlySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
