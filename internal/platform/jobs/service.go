package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"teamstats/internal/platform/metrics"
)

const (
	JobSheetRefresh = "sheet_refresh"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	DefaultHistory = 50
)

type RunFunc func(context.Context) (any, error)

// Run is one recorded job execution.
type Run struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Details     json.RawMessage `json:"details,omitempty"`
	Error       string          `json:"error,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

type Options struct {
	RefreshInterval time.Duration
	Refresh         RunFunc
	History         int
	Metrics         *metrics.Collector
}

type Service struct {
	refreshInterval time.Duration
	refresh         RunFunc
	metrics         *metrics.Collector
	queue           chan job

	mu      sync.Mutex
	runs    []Run
	history int
}

type job struct {
	Type string
	Run  RunFunc
}

func New(opts Options) *Service {
	if opts.History <= 0 {
		opts.History = DefaultHistory
	}
	return &Service{
		refreshInterval: opts.RefreshInterval,
		refresh:         opts.Refresh,
		metrics:         opts.Metrics,
		queue:           make(chan job, 16),
		history:         opts.History,
	}
}

// Start runs the queue worker and, when an interval is configured, the refresh schedule.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.refreshInterval > 0 && s.refresh != nil {
		go s.scheduleRefresh(ctx, s.refreshInterval)
	}
}

func (s *Service) Enqueue(jobType string, run RunFunc) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (Run, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// Refresh runs the configured refresh job synchronously.
func (s *Service) Refresh(ctx context.Context) (Run, error) {
	if s.refresh == nil {
		return Run{}, nil
	}
	return s.RunNow(ctx, JobSheetRefresh, s.refresh)
}

// Runs lists recorded runs, most recent first.
func (s *Service) Runs() []Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Run, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		out = append(out, s.runs[i])
	}
	return out
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Type:      j.Type,
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	s.record(run)

	details, err := j.Run(ctx)
	run.Status = StatusCompleted
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
	}
	if details != nil {
		detailsJSON, marshalErr := json.Marshal(details)
		if marshalErr != nil {
			slog.Warn("job details marshal failed", "err", marshalErr)
			detailsJSON = []byte("{}")
		}
		run.Details = detailsJSON
	}
	completed := time.Now().UTC()
	run.CompletedAt = &completed
	s.record(run)
	s.metrics.RecordJob(run.Type, run.Status)
	return run, err
}

// record inserts or replaces a run by id, dropping the oldest beyond the history size.
func (s *Service) record(run Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.runs {
		if s.runs[i].ID == run.ID {
			s.runs[i] = run
			return
		}
	}
	s.runs = append(s.runs, run)
	if len(s.runs) > s.history {
		s.runs = append([]Run(nil), s.runs[len(s.runs)-s.history:]...)
	}
}

func (s *Service) scheduleRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobSheetRefresh, s.refresh)
		}
	}
}
