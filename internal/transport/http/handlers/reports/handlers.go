package reportshandler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"teamstats/internal/domain/dashboard"
	"teamstats/internal/domain/reports"
	"teamstats/internal/requestctx"
	"teamstats/internal/transport/http/api"
	employeeshandler "teamstats/internal/transport/http/handlers/employees"
	"teamstats/internal/transport/http/middleware"
	"teamstats/internal/transport/http/shared"
)

type Handler struct {
	Source  dashboard.Fetcher
	Options reports.Options
	PDF     reports.PDFOptions
	Now     func() time.Time
}

func NewHandler(source dashboard.Fetcher, opts reports.Options, pdf reports.PDFOptions) *Handler {
	return &Handler{Source: source, Options: opts, PDF: pdf, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/employees.pdf", h.handleEmployeesPDF)
	})
}

func (h *Handler) handleEmployeesPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	limit := v.Int("limit", r.URL.Query().Get("limit"), 0, 0)
	if v.Reject(w, requestID) {
		return
	}

	list, err := h.Source.Employees(r.Context())
	if err != nil {
		requestctx.Logger(r.Context()).Warn("load employees for report failed", "err", err)
		api.Fail(w, employeeshandler.UpstreamStatus(err), "upstream_unavailable", "employee data is unavailable", requestID)
		return
	}

	summary := reports.BuildSummary(list, h.Options, h.Now())
	opts := h.PDF
	if limit > 0 {
		opts.Limit = limit
	}
	var buf bytes.Buffer
	if err := reports.WritePDF(&buf, summary, opts); err != nil {
		requestctx.Logger(r.Context()).Warn("render pdf report failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "could not render report", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="employees-`+summary.GeneratedAt.Format("20060102")+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("write pdf report failed", "err", err)
	}
}
