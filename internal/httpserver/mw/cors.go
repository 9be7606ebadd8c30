package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

const corsMaxAgeSeconds = 12 * 60 * 60

// CORS lets the listed browser origins call the API. With no origins it is
// a passthrough and cross-origin requests get no CORS headers.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           corsMaxAgeSeconds,
	})
}
