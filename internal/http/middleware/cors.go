package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS aplica a política de ALLOW_ORIGINS. Entradas como *.dominio.com
// liberam subdomínios; lista vazia não libera nenhuma origem.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, entry := range allowedOrigins {
		if e := strings.TrimSpace(entry); e != "" {
			origins = append(origins, e)
		}
	}

	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
