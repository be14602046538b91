package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS creates a CORS middleware restricted to the configured origin.
// An empty origin allows any origin, which is only acceptable for
// local development.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	origins := []string{"*"}
	if allowedOrigin != "" {
		origins = []string{allowedOrigin}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
