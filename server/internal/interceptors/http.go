package interceptors

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// AccessLog logs method, path, status and elapsed time of every request.
func AccessLog(logger *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		logger.WithContext(r.Context()).WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     m.Code,
			"bytes":      m.Written,
			"elapsed_ms": m.Duration.Milliseconds(),
		}).Info("Handled request")
	})
}

// CORS adds cross origin headers for the allowed origins and answers preflight requests. With no allowed origins it
// returns next unchanged.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return next
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		MaxAge:         600,
	}).Handler(next)
}
