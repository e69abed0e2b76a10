package employeeshandler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"teamstats/internal/domain/dashboard"
	"teamstats/internal/domain/employees"
	"teamstats/internal/domain/reports"
	"teamstats/internal/platform/breaker"
	"teamstats/internal/requestctx"
	"teamstats/internal/transport/http/api"
	"teamstats/internal/transport/http/middleware"
	"teamstats/internal/transport/http/shared"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Source provides the sheet rows and the per-employee statistics built from them.
type Source interface {
	Rows(ctx context.Context) ([]employees.Row, error)
	Employees(ctx context.Context) ([]employees.Employee, error)
}

type Handler struct {
	Source  Source
	Options dashboard.Options
	Now     func() time.Time
}

func NewHandler(source Source, opts dashboard.Options) *Handler {
	return &Handler{Source: source, Options: opts, Now: time.Now}
}

// RegisterRawRoutes mounts the plain JSON employee API under r.
func (h *Handler) RegisterRawRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/employees", h.handleRawEmployees)
	r.Get("/data", h.handleRawData)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.handleSummary)
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{name}", h.handleDetail)
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	api.WriteRaw(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "Employee analytics backend is running",
		"endpoints": map[string]string{
			"/api/data":      "Raw rows of the task sheet",
			"/api/employees": "Aggregated employee statistics",
		},
	})
}

func (h *Handler) handleRawEmployees(w http.ResponseWriter, r *http.Request) {
	list, err := h.Source.Employees(r.Context())
	if err != nil {
		requestctx.Logger(r.Context()).Warn("load employees failed", "err", err)
		api.FailRaw(w, UpstreamStatus(err), err.Error())
		return
	}
	api.WriteRaw(w, http.StatusOK, list)
}

func (h *Handler) handleRawData(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Source.Rows(r.Context())
	if err != nil {
		requestctx.Logger(r.Context()).Warn("load sheet rows failed", "err", err)
		api.FailRaw(w, UpstreamStatus(err), err.Error())
		return
	}
	api.WriteRaw(w, http.StatusOK, rows)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	v := shared.NewValidator()
	sortField := h.parseSort(v, query.Get("sort"))
	minTasks := v.Int("minTasks", query.Get("minTasks"), h.Options.MinTasks, 0)
	limit := v.Int("limit", query.Get("limit"), h.Options.TopLimit, 1)
	if v.Reject(w, requestID) {
		return
	}

	list, ok := h.load(w, r)
	if !ok {
		return
	}
	summary := reports.BuildSummary(list, reports.Options{Sort: sortField, MinTasks: minTasks, TopLimit: limit}, h.Now())
	api.Success(w, summary, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	sortField := h.parseSort(v, r.URL.Query().Get("sort"))
	if v.Reject(w, requestID) {
		return
	}
	page := shared.ParsePagination(r, defaultPageSize, maxPageSize)

	list, ok := h.load(w, r)
	if !ok {
		return
	}
	lines := reports.EmployeeLines(employees.SortBy(list, sortField))
	start, end := page.Window(len(lines))
	w.Header().Set("X-Total-Count", strconv.Itoa(len(lines)))
	api.Success(w, lines[start:end], requestID)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	// chi matches on RawPath when the request carries one, so only then is the parameter still escaped.
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
	}
	name = strings.TrimSpace(name)

	list, ok := h.load(w, r)
	if !ok {
		return
	}
	e, err := employees.Find(list, name)
	if errors.Is(err, employees.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	api.Success(w, newDetailResponse(e, h.Options.DetailTaskLimit), requestID)
}

func (h *Handler) parseSort(v *shared.Validator, raw string) employees.SortField {
	allowed := make([]string, 0, len(employees.SortFields()))
	for _, f := range employees.SortFields() {
		allowed = append(allowed, string(f))
	}
	v.Enum("sort", raw, allowed, "must be one of "+strings.Join(allowed, ", "))
	field, err := employees.ParseSortField(raw)
	if err != nil {
		return employees.DefaultSortField
	}
	return field
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) ([]employees.Employee, bool) {
	list, err := h.Source.Employees(r.Context())
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		requestctx.Logger(r.Context()).Warn("load employees failed", "err", err)
		api.Fail(w, UpstreamStatus(err), "upstream_unavailable", "employee data is unavailable", requestID)
		return nil, false
	}
	return list, true
}

// UpstreamStatus maps a data source failure to the status reported to clients.
func UpstreamStatus(err error) int {
	switch {
	case errors.Is(err, breaker.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

type detailResponse struct {
	Name         string               `json:"name"`
	TotalTasks   int                  `json:"totalTasks"`
	Delayed      int                  `json:"delayed"`
	Postponed    int                  `json:"postponed"`
	AvgDeviation float64              `json:"avgDeviation"`
	Efficiency   employees.Efficiency `json:"efficiency"`
	TaskCount    int                  `json:"taskCount"`
	Truncated    bool                 `json:"truncated"`
	Tasks        []taskResponse       `json:"tasks"`
}

type taskResponse struct {
	Task        string           `json:"task"`
	Status      string           `json:"status"`
	Kind        employees.Status `json:"kind"`
	Deadline    string           `json:"deadline"`
	Deviation   string           `json:"deviation"`
	HasDeadline bool             `json:"hasDeadline"`
	Link        string           `json:"link,omitempty"`
}

func newDetailResponse(e employees.Employee, limit int) detailResponse {
	view := dashboard.NewDetailView(e, limit)
	out := detailResponse{
		Name:         e.Name,
		TotalTasks:   e.TotalTasks,
		Delayed:      e.Delayed,
		Postponed:    e.Postponed,
		AvgDeviation: e.AvgDeviation,
		Efficiency:   employees.ComputeEfficiency(e),
		TaskCount:    view.TaskCount,
		Truncated:    view.Truncated,
		Tasks:        make([]taskResponse, 0, len(view.Tasks)),
	}
	for _, t := range view.Tasks {
		out.Tasks = append(out.Tasks, taskResponse{
			Task:        t.Task.Task,
			Status:      t.Status,
			Kind:        t.Kind,
			Deadline:    t.Deadline,
			Deviation:   t.Deviation,
			HasDeadline: t.HasDeadline,
			Link:        t.Link,
		})
	}
	return out
}
