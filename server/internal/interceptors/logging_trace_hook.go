package interceptors

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type TraceHook struct{}

// Levels returns the levels we want this TraceHook to be fired on.
func (h *TraceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire populates the entry with trace_id and span_id retrieved from the context.
// Components should use WithContext(ctx) for the ids to be logged.
func (h *TraceHook) Fire(entry *logrus.Entry) error {
	if entry.Context == nil {
		return nil
	}

	sc := trace.SpanContextFromContext(entry.Context)
	if sc.IsValid() {
		entry.Data["trace_id"] = sc.TraceID().String()
		entry.Data["span_id"] = sc.SpanID().String()
	}

	return nil
}
