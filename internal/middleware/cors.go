package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORS allows the storefront frontend to call the API from another origin.
// Credentials are only allowed when origins are listed explicitly.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:           600,
		AllowCredentials: !slices.Contains(origins, "*"),
	})

	return handler.Handler
}
