package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the dashboard origins from configuration.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id", "X-DD-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
