package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
)

const timeoutBody = `{"error": "Request timed out"}` + "\n"

// Timeout cancels the request context after d. When the handler gives up
// without writing anything the client still gets a 200 error envelope.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				ww.Header().Set("Content-Type", "application/json")
				ww.WriteHeader(http.StatusOK)
				_, _ = ww.Write([]byte(timeoutBody))
			}
		})
	}
}
