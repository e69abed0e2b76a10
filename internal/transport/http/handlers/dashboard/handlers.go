package dashboardhandler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"teamstats/internal/domain/dashboard"
	"teamstats/internal/domain/employees"
	"teamstats/internal/requestctx"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
	"days": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	"medal": func(rank int) string {
		switch rank {
		case 1:
			return "🥇"
		case 2:
			return "🥈"
		case 3:
			return "🥉"
		}
		return fmt.Sprintf("#%d", rank)
	},
	"statusClass": func(s employees.Status) string {
		return "status-" + string(s)
	},
	"lateClass": func(v float64) string {
		if v > 5 {
			return "late"
		}
		return "on-time"
	},
}

var page = template.Must(template.New("dashboard.html").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

type Handler struct {
	Source  dashboard.Fetcher
	Options dashboard.Options
}

func NewHandler(source dashboard.Fetcher, opts dashboard.Options) *Handler {
	return &Handler{Source: source, Options: opts}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleDashboard)
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))
}

type pageData struct {
	View    dashboard.View
	Links   Links
	Options dashboard.Options
}

// StateFromQuery replays the selection carried by the URL onto a freshly loaded state.
func StateFromQuery(s dashboard.State, sort string, compare []string, detail string) dashboard.State {
	events := make([]dashboard.Event, 0, len(compare)+2)
	if field, err := employees.ParseSortField(sort); err == nil {
		events = append(events, dashboard.SortChanged{Field: field})
	}
	seen := map[string]bool{}
	for _, name := range compare {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		events = append(events, dashboard.CompareToggled{Name: name})
	}
	if detail = strings.TrimSpace(detail); detail != "" {
		events = append(events, dashboard.DetailOpened{Name: detail})
	}
	return dashboard.ReduceAll(s, events...)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	state := dashboard.Load(r.Context(), dashboard.NewState(), h.Source)
	if state.Phase == dashboard.PhaseFailed {
		requestctx.Logger(r.Context()).Warn("dashboard load failed", "err", state.Err)
	}
	state = StateFromQuery(state, query.Get("sort"), query["compare"], query.Get("detail"))

	data := pageData{
		View:    dashboard.Build(state, h.Options),
		Links:   newLinks(r.URL.Path, state),
		Options: h.Options,
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		slog.Warn("render dashboard failed", "err", err)
		http.Error(w, "could not render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if state.Phase == dashboard.PhaseFailed {
		w.WriteHeader(http.StatusBadGateway)
	}
	_, _ = w.Write(buf.Bytes())
}
