package reportshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrinsight/internal/domain/audit"
	"hrinsight/internal/domain/auth"
	"hrinsight/internal/domain/reports"
	"hrinsight/internal/transport/http/api"
	audithandler "hrinsight/internal/transport/http/handlers/audit"
	"hrinsight/internal/transport/http/middleware"
	"hrinsight/internal/transport/http/shared"
)

type Service interface {
	Generate(ctx context.Context, req reports.Request) (*reports.ConsolidatedReport, error)
	Export(ctx context.Context, req reports.ExportRequest) (reports.ExportResult, error)
	ExportHistory(ctx context.Context, userID int64, limit int) ([]reports.ExportRecord, error)
	Dashboard(ctx context.Context) (reports.DashboardSummary, error)
	Trends(ctx context.Context, months int) ([]reports.TrendPoint, error)
	EmployeeCorrelation(ctx context.Context, start, end time.Time, departmentID *int64) ([]reports.EmployeeMetrics, error)
}

type JobRuns interface {
	ListJobRuns(ctx context.Context, filter reports.JobRunFilter, limit, offset int) ([]reports.JobRun, error)
	CountJobRuns(ctx context.Context, filter reports.JobRunFilter) (int, error)
}

type Handler struct {
	Service Service
	Jobs    JobRuns
	Audit   audithandler.Auditor
	Perms   middleware.PermissionStore
}

func NewHandler(service Service, jobs JobRuns, auditor audithandler.Auditor, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Jobs: jobs, Audit: auditor, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		read := middleware.RequirePermission(auth.PermReportsRead, h.Perms)
		r.With(read).Get("/consolidated", h.handleConsolidated)
		r.With(middleware.RequirePermission(auth.PermReportsExport, h.Perms)).Post("/consolidated/export", h.handleExport)
		r.With(middleware.RequirePermission(auth.PermReportsExport, h.Perms)).Get("/exports", h.handleExportHistory)
		r.With(read).Get("/dashboard", h.handleDashboard)
		r.With(read).Get("/trends", h.handleTrends)
		r.With(read).Get("/correlation/employees", h.handleEmployeeCorrelation)
		r.With(middleware.RequirePermission(auth.PermReportsAdmin, h.Perms)).Get("/jobs", h.handleJobRuns)
	})
}

type periodQuery struct {
	start        time.Time
	end          time.Time
	departmentID *int64
}

func parsePeriodQuery(v *shared.Validator, r *http.Request) periodQuery {
	q := r.URL.Query()
	var p periodQuery
	p.start, p.end = v.Period("startDate", q.Get("startDate"), "endDate", q.Get("endDate"), false)
	p.departmentID = v.ID("departmentId", q.Get("departmentId"))
	return p
}

func (h *Handler) handleConsolidated(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	p := parsePeriodQuery(v, r)
	refresh := v.Bool("refresh", r.URL.Query().Get("refresh"))
	if v.Reject(w, requestID) {
		return
	}

	report, err := h.Service.Generate(r.Context(), reports.Request{
		Start:        p.start,
		End:          p.end,
		DepartmentID: p.departmentID,
		Refresh:      refresh,
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, report, requestID)
}

var exportFormats = []string{reports.FormatCSV, reports.FormatJSON, reports.FormatPDF, reports.FormatXLSX}

type exportPayload struct {
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	DepartmentID *int64 `json:"departmentId"`
	Format       string `json:"format"`
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload exportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("format", payload.Format, "is required")
	format := v.Enum("format", payload.Format, exportFormats, "must be one of csv, json, pdf, xlsx")
	start, end := v.Period("startDate", payload.StartDate, "endDate", payload.EndDate, false)
	v.PositiveID("departmentId", payload.DepartmentID)
	if v.Reject(w, requestID) {
		return
	}

	req := reports.ExportRequest{
		Request: reports.Request{Start: start, End: end, DepartmentID: payload.DepartmentID},
		Format:  format,
	}
	if user, ok := middleware.GetUser(r.Context()); ok {
		req.UserID = &user.UserID
	}
	result, err := h.Service.Export(r.Context(), req)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	audithandler.Record(h.Audit, r, audit.ActionReportExport, "report", result.FileName, map[string]any{
		"format":       result.Format,
		"size":         result.Size,
		"startDate":    payload.StartDate,
		"endDate":      payload.EndDate,
		"departmentId": payload.DepartmentID,
	})

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+result.FileName)
	w.Header().Set("Content-Length", strconv.Itoa(result.Size))
	if result.ExportID != nil {
		w.Header().Set("X-Export-ID", strconv.FormatInt(*result.ExportID, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

func (h *Handler) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	page := shared.ParsePagination(r, reports.DefaultHistoryLimit, reports.DefaultHistoryLimit)
	records, err := h.Service.ExportHistory(r.Context(), user.UserID, page.Limit)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, records, requestID)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	summary, err := h.Service.Dashboard(r.Context())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) handleTrends(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	months := v.IntRange("months", r.URL.Query().Get("months"), reports.DefaultTrendMonths, 1, reports.MaxTrendMonths)
	if v.Reject(w, requestID) {
		return
	}
	points, err := h.Service.Trends(r.Context(), months)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, points, requestID)
}

func (h *Handler) handleEmployeeCorrelation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	p := parsePeriodQuery(v, r)
	if v.Reject(w, requestID) {
		return
	}
	rows, err := h.Service.EmployeeCorrelation(r.Context(), p.start, p.end, p.departmentID)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, rows, requestID)
}

func (h *Handler) handleJobRuns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if h.Jobs == nil {
		api.Fail(w, http.StatusNotImplemented, "not_configured", "job history not configured", requestID)
		return
	}
	q := r.URL.Query()
	v := shared.NewValidator()
	filter := reports.JobRunFilter{
		JobType: q.Get("jobType"),
		Status:  q.Get("status"),
	}
	from, to := v.Period("startedFrom", q.Get("startedFrom"), "startedTo", q.Get("startedTo"), false)
	if !from.IsZero() {
		filter.StartedFrom = &from
	}
	if !to.IsZero() {
		filter.StartedTo = &to
	}
	if v.Reject(w, requestID) {
		return
	}
	page := shared.ParsePagination(r, 20, 100)

	runs, err := h.Jobs.ListJobRuns(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	total, err := h.Jobs.CountJobRuns(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	page.Write(w, runs, total, requestID)
}
