package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countQuery struct {
	UserID string
}

func (q countQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user id is required")
	}
	return nil
}

type fakeMetrics struct {
	counts map[string]int
	timers int
}

type fakeTimer struct{ m *fakeMetrics }

func (t fakeTimer) Stop() { t.m.timers++ }

func (m *fakeMetrics) StartTimer(_, _ string) Timer { return fakeTimer{m} }

func (m *fakeMetrics) Increment(metric, label string) { m.counts[metric+"/"+label]++ }

func newCountBus(t *testing.T, middlewares ...Middleware) *QueryBus {
	t.Helper()
	b := NewQueryBus(middlewares...)
	require.NoError(t, b.Register(countQuery{}, QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		if q.(countQuery).UserID == "missing" {
			return nil, errors.New("not found")
		}
		return 3, nil
	})))
	return b
}

func TestQueryBus_Ask(t *testing.T) {
	b := newCountBus(t)

	result, err := b.Ask(context.Background(), countQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 3, result)

	_, err = b.Ask(context.Background(), countQuery{})
	assert.ErrorContains(t, err, "user id is required")

	err = b.Register(countQuery{}, QueryHandlerFunc(func(context.Context, Query) (interface{}, error) { return nil, nil }))
	assert.Error(t, err)
}

func TestAskAs(t *testing.T) {
	b := newCountBus(t)

	n, err := AskAs[int](context.Background(), b, countQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = AskAs[string](context.Background(), b, countQuery{UserID: "u1"})
	assert.ErrorIs(t, err, ErrUnexpectedResult)

	_, err = AskAs[int](context.Background(), NewQueryBus(), countQuery{UserID: "u1"})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestMetricsMiddleware(t *testing.T) {
	m := &fakeMetrics{counts: map[string]int{}}
	b := newCountBus(t, NewMetricsMiddleware(m))

	_, err := b.Ask(context.Background(), countQuery{UserID: "u1"})
	require.NoError(t, err)
	_, err = b.Ask(context.Background(), countQuery{UserID: "missing"})
	require.Error(t, err)

	assert.Equal(t, 1, m.counts["query_success/countQuery"])
	assert.Equal(t, 1, m.counts["query_errors/countQuery"])
	assert.Equal(t, 2, m.timers)
}
