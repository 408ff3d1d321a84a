package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/kbukum/asr-proxy/logger"
)

var operationalPaths = []string{"/health", "/alive", "/ready", "/metrics"}

// RequestLogger logs every request with method, path, status and duration.
// Probe and scrape paths are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(operationalPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, sw.status,
				logger.FieldDuration, time.Since(start).Milliseconds(),
				"bytes", sw.size,
			)
			logByStatus(log.WithContext(r.Context()), fields, sw.status)
		})
	}
}

// logByStatus picks the level from the status: 5xx error, 4xx warn, else debug.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
