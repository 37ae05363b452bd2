package interceptors

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InterceptWithDefaultMetrics instruments handler with in-flight, count and latency metrics registered on reg.
func InterceptWithDefaultMetrics(reg prometheus.Registerer, handler http.Handler) (http.Handler, error) {
	inFlightGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "malbuch_http_in_flight_requests",
		Help: "Current number of in-flight HTTP requests",
	})
	requestCount := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "malbuch_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code and method",
	}, []string{"code", "method"})
	requestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "malbuch_http_request_duration_seconds",
		Help: "Histogram of HTTP request durations in seconds",
	}, []string{"method"})

	for _, c := range []prometheus.Collector{inFlightGauge, requestCount, requestLatency} {
		err := reg.Register(c)
		if err != nil {
			return nil, fmt.Errorf("register http metrics: %w", err)
		}
	}

	return promhttp.InstrumentHandlerInFlight(inFlightGauge,
		promhttp.InstrumentHandlerDuration(requestLatency,
			promhttp.InstrumentHandlerCounter(requestCount, handler),
		),
	), nil
}
