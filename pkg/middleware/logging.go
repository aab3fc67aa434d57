package middleware

import (
	"net/http"
	"time"

	"github.com/tair/eco-catalog/pkg/logger"
)

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging logs HTTP requests with structured logging
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		logger.Debug(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Msg("HTTP request started")

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		event := logger.Info(ctx)
		if rw.statusCode >= http.StatusInternalServerError {
			event = logger.Error(ctx)
		} else if rw.statusCode >= http.StatusBadRequest {
			event = logger.Warn(ctx)
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("HTTP request completed")
	})
}
