package middleware

import (
	"net/http"

	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/go-chi/chi/middleware"

	"github.com/google/uuid"
)

const (
	TraceIDHeader   = "X-Trace-ID"
	RequestIDHeader = "X-Request-Id"
)

// RequestID echoes chi's request id and a trace id on the response and puts
// both on the request-scoped logger. Run it after chi's RequestID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		reqID := middleware.GetReqID(r.Context())
		ctx := logger.With(r.Context(), "trace_id", traceID, "request_id", reqID)

		w.Header().Set(TraceIDHeader, traceID)
		if reqID != "" {
			w.Header().Set(RequestIDHeader, reqID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
