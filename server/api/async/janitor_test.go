package async_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AimPizza/malbuch/server/api/async"
	"github.com/AimPizza/malbuch/server/api/async/mocks"
)

//go:generate moq -out mocks/staging_sweeper.go -pkg mocks -skip-ensure . StagingSweeper

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func quickBackOff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
}

func metricValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		m := mf.GetMetric()[0]
		if m.GetCounter() != nil {
			return m.GetCounter().GetValue()
		}
		return m.GetGauge().GetValue()
	}
	t.Fatalf("metric %q not registered", name)
	return 0
}

func TestJanitorSweep(t *testing.T) {
	tests := map[string]struct {
		results []int
		errs    []error

		expectedCalls   int
		expectedRemoved int
	}{
		"nothing to sweep": {
			results:       []int{0},
			errs:          []error{nil},
			expectedCalls: 1,
		},
		"files removed": {
			results:         []int{3},
			errs:            []error{nil},
			expectedCalls:   1,
			expectedRemoved: 3,
		},
		"partial failure is retried": {
			results:         []int{2, 1},
			errs:            []error{errors.New("permission denied"), nil},
			expectedCalls:   2,
			expectedRemoved: 3,
		},
		"gives up after retries": {
			results:       []int{0, 0, 0, 0},
			errs:          []error{errors.New("boom"), errors.New("boom"), errors.New("boom"), errors.New("boom")},
			expectedCalls: 4,
		},
		"cancellation is not retried": {
			results:       []int{0},
			errs:          []error{context.Canceled},
			expectedCalls: 1,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var call int
			sweeper := &mocks.StagingSweeperMock{
				SweepStagingFunc: func(ctx context.Context, maxAge time.Duration) (int, error) {
					assert.Equal(t, 2*time.Hour, maxAge)
					i := call
					call++
					return test.results[i], test.errs[i]
				},
			}
			reg := prometheus.NewRegistry()
			j, err := async.NewJanitor(newLogger(), sweeper, 2*time.Hour, time.Minute, reg, async.WithBackOff(quickBackOff))
			require.NoError(t, err)

			removed := j.Sweep(context.Background())
			assert.Equal(t, test.expectedRemoved, removed)
			assert.Len(t, sweeper.SweepStagingCalls(), test.expectedCalls)
			assert.EqualValues(t, test.expectedRemoved, metricValue(t, reg, "malbuch_staging_files_swept_total"))
		})
	}
}

func TestJanitorRun(t *testing.T) {
	var calls atomic.Int32
	sweeper := &mocks.StagingSweeperMock{
		SweepStagingFunc: func(ctx context.Context, maxAge time.Duration) (int, error) {
			calls.Add(1)
			return 1, nil
		},
	}
	reg := prometheus.NewRegistry()
	j, err := async.NewJanitor(newLogger(), sweeper, 0, 10*time.Millisecond, reg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}

	assert.Equal(t, async.DefaultStagingMaxAge, sweeper.SweepStagingCalls()[0].MaxAge)
	assert.GreaterOrEqual(t, metricValue(t, reg, "malbuch_staging_files_swept_total"), float64(3))
}

func TestJanitorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := async.NewJanitor(newLogger(), &mocks.StagingSweeperMock{}, 0, 0, reg)
	require.NoError(t, err)

	_, err = async.NewJanitor(newLogger(), &mocks.StagingSweeperMock{}, 0, 0, reg)
	assert.Error(t, err)
}
