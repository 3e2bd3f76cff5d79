package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

const corsMaxAge = 300

// CORS allows the given origins, or every origin when the list contains "*".
// Preflight requests are answered here and never reach the router.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Accept-Encoding", "Cache-Control", "Content-Type",
			"Origin", "X-Requested-With", RequestIDHeader, TraceIDHeader,
		},
		ExposedHeaders: []string{RequestIDHeader, TraceIDHeader},
		MaxAge:         corsMaxAge,
	})
}
