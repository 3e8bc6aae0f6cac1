package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const (
	traceIDKey = contextKey("trace_id")
	loggerKey  = contextKey("logger")

	TraceIDHeader = "X-Trace-ID"
)

// TraceID tags every request with a fresh id, echoed back in the X-Trace-ID
// header and attached to the request logger.
func TraceID(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := uuid.New().String()
			w.Header().Set(TraceIDHeader, traceID)

			ctx := context.WithValue(r.Context(), traceIDKey, traceID)
			ctx = context.WithValue(ctx, loggerKey, logger.WithField("trace_id", traceID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetTraceID(ctx context.Context) string {
	if val, ok := ctx.Value(traceIDKey).(string); ok {
		return val
	}
	return ""
}

// Logger returns the request-scoped log entry, or one on the standard logger
// when the request did not pass through TraceID.
func Logger(ctx context.Context) *log.Entry {
	if entry, ok := ctx.Value(loggerKey).(*log.Entry); ok {
		return entry
	}
	return log.NewEntry(log.StandardLogger())
}
