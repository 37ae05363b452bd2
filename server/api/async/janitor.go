package async

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultStagingMaxAge = time.Hour
	DefaultSweepInterval = 10 * time.Minute
)

type StagingSweeper interface {
	SweepStaging(ctx context.Context, maxAge time.Duration) (int, error)
}

// Janitor removes staging files left behind by uploads that never completed, e.g. because the process crashed
// mid-upload.
type Janitor struct {
	logger   *logrus.Logger
	storage  StagingSweeper
	maxAge   time.Duration
	interval time.Duration
	swept    prometheus.Counter

	newBackOff func() backoff.BackOff
}

type JanitorOption func(j *Janitor)

// WithBackOff replaces the retry policy of a single sweep.
func WithBackOff(newBackOff func() backoff.BackOff) JanitorOption {
	return func(j *Janitor) {
		j.newBackOff = newBackOff
	}
}

func NewJanitor(logger *logrus.Logger, storage StagingSweeper, maxAge, interval time.Duration, reg prometheus.Registerer, opts ...JanitorOption) (*Janitor, error) {
	if maxAge <= 0 {
		maxAge = DefaultStagingMaxAge
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	swept := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "malbuch_staging_files_swept_total",
		Help: "Total abandoned staging files removed by the janitor",
	})
	err := reg.Register(swept)
	if err != nil {
		return nil, fmt.Errorf("register janitor metrics: %w", err)
	}

	j := &Janitor{
		logger:   logger,
		storage:  storage,
		maxAge:   maxAge,
		interval: interval,
		swept:    swept,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff(
				backoff.WithMaxElapsedTime(time.Second*3),
				backoff.WithMaxInterval(time.Second),
				backoff.WithInitialInterval(time.Millisecond*100),
				backoff.WithMultiplier(2),
				backoff.WithRandomizationFactor(0.2),
			)
		},
	}
	for opt := range slices.Values(opts) {
		opt(j)
	}

	return j, nil
}

// Run sweeps once right away and then every interval until the context is done.
func (j *Janitor) Run(ctx context.Context) {
	j.logger.WithContext(ctx).WithFields(logrus.Fields{
		"max_age":  j.maxAge.String(),
		"interval": j.interval.String(),
	}).Info("Running Janitor")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		j.Sweep(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep removes stale staging files, retrying failed sweeps with exponential backoff. It returns how many files
// were removed.
func (j *Janitor) Sweep(ctx context.Context) int {
	ctx, span := otel.Tracer("").Start(ctx, "janitor")
	defer span.End()

	logger := j.logger.WithContext(ctx)

	var total int
	err := backoff.Retry(func() error {
		removed, err := j.storage.SweepStaging(ctx, j.maxAge)
		total += removed
		j.swept.Add(float64(removed))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// shutting down, the next run picks up whatever is left
				return backoff.Permanent(err)
			}
			logger.WithError(err).Warn("Failed to sweep staging area, retrying")
			return err
		}
		return nil
	}, backoff.WithContext(j.newBackOff(), ctx))
	span.SetAttributes(attribute.Int("janitor.removed", total))
	if err != nil {
		logger.WithError(err).Error("Failed to sweep staging area in janitor")
		return total
	}

	if total > 0 {
		logger.WithField("removed", total).Info("Removed abandoned staging files")
	}

	return total
}
