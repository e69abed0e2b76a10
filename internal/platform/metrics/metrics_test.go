package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, "/api/employees", http.StatusOK, 20*time.Millisecond)
	c.Record(http.MethodGet, "/api/employees", http.StatusBadGateway, 40*time.Millisecond)
	c.Record(http.MethodPost, "/api/v1/refresh", http.StatusTooManyRequests, 0)
	c.RecordFetch("sheet", time.Millisecond, errors.New("boom"))

	snapshot := c.Snapshot()
	if snapshot["requestsTotal"].(uint64) != 3 {
		t.Fatalf("expected 3 requests, got %v", snapshot["requestsTotal"])
	}
	if snapshot["errorsTotal"].(uint64) != 1 {
		t.Fatalf("expected 1 error, got %v", snapshot["errorsTotal"])
	}
	if snapshot["rateLimitedTotal"].(uint64) != 1 {
		t.Fatalf("expected 1 rate limited, got %v", snapshot["rateLimitedTotal"])
	}
	if snapshot["avgDurationMs"].(float64) != 20 {
		t.Fatalf("expected avg 20ms, got %v", snapshot["avgDurationMs"])
	}
	if snapshot["sourceFailuresTotal"].(uint64) != 1 {
		t.Fatalf("expected 1 source failure, got %v", snapshot["sourceFailuresTotal"])
	}
}

func TestCollectorHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, "/api/employees", http.StatusOK, time.Millisecond)
	c.SetBreakerState("sheet", 2)
	c.RecordJob("sheet_refresh", "completed")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`teamstats_http_requests_total{method="GET",route="/api/employees",status="200"} 1`,
		`teamstats_circuit_breaker_state{name="sheet"} 2`,
		`teamstats_job_runs_total{status="completed",type="sheet_refresh"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Record(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	c.RecordFetch("sheet", time.Millisecond, nil)
	c.SetBreakerState("sheet", 0)
	c.RecordJob("sheet_refresh", "failed")
}
