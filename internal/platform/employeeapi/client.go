package employeeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"teamstats/internal/domain/employees"
	"teamstats/internal/platform/breaker"
	"teamstats/internal/platform/metrics"
)

const (
	DefaultTimeout = 15 * time.Second
	EmployeesPath  = "/api/employees"

	metricsSource = "employee_api"
	maxErrorBody  = 512
)

var ErrDecode = errors.New("decode employees response")

// StatusError reports a non-2xx answer from the employee API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("employee api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("employee api returned status %d: %s", e.StatusCode, e.Body)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	// Breaker enables a circuit breaker around requests when set.
	Breaker *breaker.Settings
	Metrics *metrics.Collector
}

// Client fetches per-employee statistics from GET {base}/api/employees. It never retries on its own.
type Client struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	breaker  *breaker.Breaker[[]employees.Employee]
	metrics  *metrics.Collector
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid employee api url %q", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	c := &Client{
		endpoint: base + EmployeesPath,
		timeout:  opts.Timeout,
		client:   opts.HTTPClient,
		metrics:  opts.Metrics,
	}
	if opts.Breaker != nil {
		settings := *opts.Breaker
		if settings.Name == "" {
			settings.Name = metricsSource
		}
		collector := opts.Metrics
		notify := settings.OnStateChange
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			collector.SetBreakerState(name, breaker.StateValue(to))
			if notify != nil {
				notify(name, from, to)
			}
		}
		c.breaker = breaker.New[[]employees.Employee](settings)
	}
	return c, nil
}

func (c *Client) Employees(ctx context.Context) ([]employees.Employee, error) {
	start := time.Now()
	list, err := c.breaker.Execute(func() ([]employees.Employee, error) {
		return c.fetch(ctx)
	})
	c.metrics.RecordFetch(metricsSource, time.Since(start), err)
	return list, err
}

func (c *Client) fetch(ctx context.Context) ([]employees.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build employees request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch employees: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var list []employees.Employee
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after employee list", ErrDecode)
	}
	if list == nil {
		list = []employees.Employee{}
	}
	for i := range list {
		if list[i].Tasks == nil {
			list[i].Tasks = []employees.Task{}
		}
	}
	return list, nil
}
