package jobshandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"teamstats/internal/platform/jobs"
	"teamstats/internal/transport/http/api"
	employeeshandler "teamstats/internal/transport/http/handlers/employees"
	"teamstats/internal/transport/http/middleware"
	"teamstats/internal/transport/http/shared"
)

type Runner interface {
	Refresh(ctx context.Context) (jobs.Run, error)
	Runs() []jobs.Run
}

type Handler struct {
	Jobs Runner
}

func NewHandler(runner Runner) *Handler {
	return &Handler{Jobs: runner}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/refresh", h.handleRefresh)
	r.Get("/jobs", h.handleListRuns)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	run, err := h.Jobs.Refresh(r.Context())
	if err != nil {
		api.FailWithDetails(w, employeeshandler.UpstreamStatus(err), "refresh_failed", "refresh failed", run, requestID)
		return
	}
	api.Success(w, run, requestID)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs := h.Jobs.Runs()
	jobType := r.URL.Query().Get("type")
	status := r.URL.Query().Get("status")
	filtered := make([]jobs.Run, 0, len(runs))
	for _, run := range runs {
		if jobType != "" && run.Type != jobType {
			continue
		}
		if status != "" && run.Status != status {
			continue
		}
		filtered = append(filtered, run)
	}

	page := shared.ParsePagination(r, 20, 100)
	start, end := page.Window(len(filtered))
	w.Header().Set("X-Total-Count", strconv.Itoa(len(filtered)))
	api.Success(w, filtered[start:end], middleware.GetRequestID(r.Context()))
}
