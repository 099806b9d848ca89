package benchmarkhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrinsight/internal/domain/audit"
	"hrinsight/internal/domain/auth"
	"hrinsight/internal/domain/benchmark"
	"hrinsight/internal/transport/http/api"
	audithandler "hrinsight/internal/transport/http/handlers/audit"
	"hrinsight/internal/transport/http/middleware"
	"hrinsight/internal/transport/http/shared"
)

type Service interface {
	Calculate(ctx context.Context, req benchmark.CalculateRequest) (benchmark.Snapshot, error)
	Latest(ctx context.Context, scope string, scopeID *int64) (*benchmark.Snapshot, error)
	List(ctx context.Context, scope string, scopeID *int64, limit int) ([]benchmark.Snapshot, error)
	CompareEmployee(ctx context.Context, employeeID int64) (benchmark.EmployeeComparison, error)
	Ranking(ctx context.Context, scope string, scopeID *int64, limit int) ([]benchmark.RankingEntry, error)
}

type Handler struct {
	Service Service
	Audit   audithandler.Auditor
	Perms   middleware.PermissionStore
}

func NewHandler(service Service, auditor audithandler.Auditor, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Audit: auditor, Perms: perms}
}

var scopes = []string{benchmark.ScopeOrganization, benchmark.ScopeDepartment, benchmark.ScopePosition, benchmark.ScopeTeam}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/benchmarks", func(r chi.Router) {
		read := middleware.RequirePermission(auth.PermBenchmarksRead, h.Perms)
		r.With(middleware.RequirePermission(auth.PermBenchmarksWrite, h.Perms)).Post("/", h.handleCalculate)
		r.With(read).Get("/", h.handleList)
		r.With(read).Get("/latest", h.handleLatest)
		r.With(read).Get("/compare/{employeeID}", h.handleCompare)
		r.With(read).Get("/ranking", h.handleRanking)
	})
}

type calculatePayload struct {
	Scope       string `json:"scope"`
	ScopeID     *int64 `json:"scopeId"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload calculatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("scope", payload.Scope, "is required")
	scope := v.Enum("scope", payload.Scope, scopes, "must be one of organization, department, position, team")
	if scope != "" && scope != benchmark.ScopeOrganization && payload.ScopeID == nil {
		v.Add("scopeId", "is required for this scope")
	}
	v.PositiveID("scopeId", payload.ScopeID)
	start, end := v.Period("periodStart", payload.PeriodStart, "periodEnd", payload.PeriodEnd, true)
	if v.Reject(w, requestID) {
		return
	}

	snapshot, err := h.Service.Calculate(r.Context(), benchmark.CalculateRequest{
		Scope:       scope,
		ScopeID:     payload.ScopeID,
		PeriodStart: start,
		PeriodEnd:   end,
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	audithandler.Record(h.Audit, r, audit.ActionBenchmarkCalculate, "benchmark", strconv.FormatInt(snapshot.ID, 10), payload)
	api.Created(w, snapshot, requestID)
}

type scopeQuery struct {
	scope   string
	scopeID *int64
	limit   int
}

func parseScopeQuery(v *shared.Validator, r *http.Request, defaultScope string) scopeQuery {
	q := r.URL.Query()
	sq := scopeQuery{
		scope:   v.Enum("scope", q.Get("scope"), scopes, "must be one of organization, department, position, team"),
		scopeID: v.ID("scopeId", q.Get("scopeId")),
		limit:   v.Int("limit", q.Get("limit"), 0),
	}
	if sq.scope == "" {
		sq.scope = defaultScope
	}
	if sq.limit < 0 {
		v.Add("limit", "must not be negative")
	}
	return sq
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	q := parseScopeQuery(v, r, "")
	if v.Reject(w, requestID) {
		return
	}
	snapshots, err := h.Service.List(r.Context(), q.scope, q.scopeID, q.limit)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, snapshots, requestID)
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	q := parseScopeQuery(v, r, benchmark.ScopeOrganization)
	if v.Reject(w, requestID) {
		return
	}
	snapshot, err := h.Service.Latest(r.Context(), q.scope, q.scopeID)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if snapshot == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no benchmark calculated for scope", requestID)
		return
	}
	api.Success(w, snapshot, requestID)
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil || employeeID <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}
	comparison, err := h.Service.CompareEmployee(r.Context(), employeeID)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, comparison, requestID)
}

func (h *Handler) handleRanking(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	q := parseScopeQuery(v, r, benchmark.ScopeOrganization)
	if v.Reject(w, requestID) {
		return
	}
	ranking, err := h.Service.Ranking(r.Context(), q.scope, q.scopeID, q.limit)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, ranking, requestID)
}
