package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ahmedbana/upload-to-azure/internal/auth"
	"github.com/ahmedbana/upload-to-azure/internal/config"
	httpmiddleware "github.com/ahmedbana/upload-to-azure/internal/http/middleware"
	"github.com/ahmedbana/upload-to-azure/internal/node"
)

// Handler expõe os nós registrados via HTTP.
type Handler struct {
	registry     *node.Registry
	maxBodyBytes int64
	logger       zerolog.Logger
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, registry *node.Registry, logger zerolog.Logger) http.Handler {
	h := &Handler{
		registry:     registry,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger.With().Str("component", "http").Logger(),
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	subjectLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging(h.logger))
	r.Use(httpmiddleware.Recover(h.logger))
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Get("/health", h.Health)

	r.Route("/nodes", func(nodes chi.Router) {
		nodes.Use(httpmiddleware.IPRateLimit(limiter))
		nodes.Get("/", h.ListNodes)

		nodes.Group(func(exec chi.Router) {
			if cfg.AuthEnabled() {
				exec.Use(httpmiddleware.Auth(auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)))
				exec.Use(httpmiddleware.RequireScope(auth.ScopeExecute))
				exec.Use(httpmiddleware.UserRateLimit(subjectLimiter))
			}
			exec.Post("/{name}/execute", h.ExecuteNode)
		})
	})

	return r
}
