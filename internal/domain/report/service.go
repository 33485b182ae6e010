package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// GetDashboard runs the overview queries in parallel. Concurrent callers share one load.
	GetDashboard(ctx context.Context) (DashboardResponse, error)
	GetFinancialReport(ctx context.Context, req DateRangeRequest) (FinancialReportResponse, error)
	// Export renders the requested report as an xlsx workbook, CSV or PDF.
	Export(ctx context.Context, req ExportRequest) (ExportFile, error)
}
