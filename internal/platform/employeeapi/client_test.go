package employeeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamstats/internal/domain/dashboard"
	"teamstats/internal/platform/breaker"
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != EmployeesPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestEmployeesDecodesContract(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[
		{"name":"A","total_tasks":2,"delayed":1,"postponed":0,"avg_deviation":-0.5,
		 "tasks":[{"task":"t1","status":"Завершена","deadline":"01.01","deviation":"Нет срока","link":"https://x"}]},
		{"name":"B","total_tasks":0,"delayed":0,"postponed":0,"avg_deviation":0,"tasks":null}
	]`)
	client, err := New(Options{BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	list, err := client.Employees(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, -0.5, list[0].AvgDeviation)
	assert.Equal(t, "https://x", list[0].Tasks[0].Link)
	assert.False(t, list[0].Tasks[0].HasDeadline())
	assert.NotNil(t, list[1].Tasks)
	assert.Empty(t, list[1].Tasks)
}

func TestEmployeesStatusError(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError, `{"error":"sheet down"}`)
	client, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Employees(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "sheet down")
}

func TestEmployeesDecodeError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{not json`)
	client, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Employees(context.Background())
	require.ErrorIs(t, err, ErrDecode)
}

func TestEmployeesRejectsTrailingData(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[] xyz`)
	client, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Employees(context.Background())
	require.ErrorIs(t, err, ErrDecode)

	srv, _ = newServer(t, http.StatusOK, "[]\n")
	client, err = New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	list, err := client.Employees(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestEmployeesBreaker(t *testing.T) {
	srv, hits := newServer(t, http.StatusServiceUnavailable, "")
	client, err := New(Options{
		BaseURL: srv.URL,
		Breaker: &breaker.Settings{Failures: 1, Timeout: time.Minute},
	})
	require.NoError(t, err)

	_, err = client.Employees(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	_, err = client.Employees(context.Background())
	require.ErrorIs(t, err, breaker.ErrCircuitOpen)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestNewRejectsInvalidURL(t *testing.T) {
	_, err := New(Options{BaseURL: "not a url"})
	require.Error(t, err)
}

func TestFailedFetchThenRetry(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"name":"A","total_tasks":1,"delayed":0,"postponed":0,"avg_deviation":0,"tasks":[]}]`))
	}))
	defer srv.Close()
	client, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	state := dashboard.Load(context.Background(), dashboard.NewState(), client)
	assert.Equal(t, dashboard.PhaseFailed, state.Phase)
	assert.NotEmpty(t, state.Err)

	fail.Store(false)
	state = dashboard.Load(context.Background(), state, client)
	assert.Equal(t, dashboard.PhaseReady, state.Phase)
	assert.Len(t, state.Employees, 1)
}
