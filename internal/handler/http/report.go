package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/officehr/payroll-backend-go/internal/domain/report"
	"github.com/officehr/payroll-backend-go/internal/handler/http/response"
	"github.com/officehr/payroll-backend-go/internal/pkg/document"
)

type ReportHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetFinancialReport(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetDashboard handles GET /reports/dashboard
func (h *reportHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetFinancialReport handles GET /reports/financial
func (h *reportHandlerImpl) GetFinancialReport(w http.ResponseWriter, r *http.Request) {
	req := report.DateRangeRequest{
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	}

	result, err := h.reportService.GetFinancialReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /reports/{kind}/export
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		Kind: report.ExportKind(chi.URLParam(r, "kind")),
		DateRangeRequest: report.DateRangeRequest{
			StartDate: queryString(r, "start_date"),
			EndDate:   queryString(r, "end_date"),
		},
		Month:      queryIntPtr(r, "month"),
		Year:       queryIntPtr(r, "year"),
		Department: queryString(r, "department"),
		Status:     queryString(r, "status"),
	}
	if format := queryString(r, "format"); format != nil {
		req.Format = document.Format(*format)
	}

	file, err := h.reportService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}
