package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"teamstats/internal/domain/employees"
	"teamstats/internal/platform/breaker"
	"teamstats/internal/platform/cache"
	"teamstats/internal/platform/metrics"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultCacheTTL = 60 * time.Second

	metricsSource = "sheet"
	maxBodyBytes  = 32 << 20
)

var ErrStatus = errors.New("unexpected sheet response status")

type Options struct {
	// Location is an http(s) CSV export URL or a local file path.
	Location   string
	Timeout    time.Duration
	CacheTTL   time.Duration
	Cache      cache.Cache
	HTTPClient *http.Client
	Breaker    breaker.Settings
	Metrics    *metrics.Collector
}

// Source loads sheet rows and caches the raw export.
type Source struct {
	location string
	timeout  time.Duration
	ttl      time.Duration
	cache    cache.Cache
	client   *http.Client
	breaker  *breaker.Breaker[[]byte]
	metrics  *metrics.Collector
}

func New(opts Options) *Source {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL < 0 {
		opts.CacheTTL = 0
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Breaker.Name == "" {
		opts.Breaker.Name = metricsSource
	}
	collector := opts.Metrics
	notify := opts.Breaker.OnStateChange
	opts.Breaker.OnStateChange = func(name string, from, to gobreaker.State) {
		collector.SetBreakerState(name, breaker.StateValue(to))
		if notify != nil {
			notify(name, from, to)
		}
	}
	return &Source{
		location: strings.TrimSpace(opts.Location),
		timeout:  opts.Timeout,
		ttl:      opts.CacheTTL,
		cache:    opts.Cache,
		client:   opts.HTTPClient,
		breaker:  breaker.New[[]byte](opts.Breaker),
		metrics:  collector,
	}
}

func (s *Source) Location() string {
	return s.location
}

// Rows returns the sheet records, served from the cache while it is fresh.
func (s *Source) Rows(ctx context.Context) ([]employees.Row, error) {
	data, err := s.raw(ctx)
	if err != nil {
		return nil, err
	}
	return ParseCSV(data)
}

// Employees aggregates the sheet into per-employee statistics.
func (s *Source) Employees(ctx context.Context) ([]employees.Employee, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return employees.BuildStats(rows), nil
}

// Invalidate drops the cached export so the next read goes upstream.
func (s *Source) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, s.cacheKey()); err != nil {
		return fmt.Errorf("invalidate sheet cache: %w", err)
	}
	return nil
}

func (s *Source) raw(ctx context.Context) ([]byte, error) {
	if s.location == "" {
		return nil, errors.New("sheet location is not configured")
	}
	if s.cache != nil && s.ttl > 0 {
		data, ok, err := s.cache.Get(ctx, s.cacheKey())
		if err != nil {
			slog.Warn("sheet cache read failed", "err", err)
		}
		if ok {
			return data, nil
		}
	}

	start := time.Now()
	data, err := s.breaker.Execute(func() ([]byte, error) {
		return s.fetch(ctx)
	})
	s.metrics.RecordFetch(metricsSource, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, s.cacheKey(), data, s.ttl); err != nil {
			slog.Warn("sheet cache write failed", "err", err)
		}
	}
	return data, nil
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	if !isURL(s.location) {
		data, err := os.ReadFile(s.location)
		if err != nil {
			return nil, fmt.Errorf("read sheet file: %w", err)
		}
		return data, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("build sheet request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read sheet body: %w", err)
	}
	return data, nil
}

func (s *Source) cacheKey() string {
	return "sheet:" + s.location
}

func isURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
