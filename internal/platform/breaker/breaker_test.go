package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	var transitions []gobreaker.State
	b := New[int](Settings{
		Name:     "sheet",
		Failures: 2,
		Timeout:  time.Minute,
		OnStateChange: func(_ string, _, to gobreaker.State) {
			transitions = append(transitions, to)
		},
	})
	boom := errors.New("boom")
	calls := 0
	fail := func() (int, error) {
		calls++
		return 0, boom
	}

	_, err := b.Execute(fail)
	require.ErrorIs(t, err, boom)
	_, err = b.Execute(fail)
	require.ErrorIs(t, err, boom)

	_, err = b.Execute(fail)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, calls)
	assert.Equal(t, gobreaker.StateOpen, b.State())
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)
	assert.Equal(t, float64(2), StateValue(b.State()))
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	b := New[int](Settings{Name: "api", Failures: 1})
	for i := 0; i < 3; i++ {
		_, err := b.Execute(func() (int, error) { return 0, context.Canceled })
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestNilBreakerRunsDirectly(t *testing.T) {
	var b *Breaker[string]
	value, err := b.Execute(func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
