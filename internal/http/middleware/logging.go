package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Logging escreve logs estruturados por requisição.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			dur := time.Since(start)
			event := logger.Info().Str("method", r.Method).Str("path", r.URL.Path).
				Int("status", ww.Status()).Int("bytes", ww.BytesWritten()).Dur("duration", dur)

			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				event = event.Str("request_id", reqID)
			}

			event = event.Str("ip", realIPFromRequest(r))

			if ua := r.Header.Get("User-Agent"); ua != "" {
				event = event.Str("user_agent", ua)
			}

			if sub := GetSubject(r.Context()); sub != "" {
				event = event.Str("subject", sub)
			}

			event.Msg("http_request")
		})
	}
}
