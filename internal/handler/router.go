package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"shopreco/internal/configs"
	"shopreco/internal/pkg/limiter"
	"shopreco/internal/pkg/logx"
	"shopreco/internal/pkg/metrics"
	"shopreco/internal/pkg/resp"
)

// APIRouter builds the backend API: the six /api endpoints plus health and metrics.
// The two write endpoints are rate limited per client IP until ctx ends.
func APIRouter(ctx context.Context, deps *AppDeps) http.Handler {
	writeLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(deps.Config.WriteRate), deps.Config.WriteBurst)

	r := chi.NewRouter()

	r.Use(newCORS(deps.Config).Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger("api"))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	mountOps(r, "shopreco-api")

	r.Route("/api", func(api chi.Router) {
		api.Get("/users", HandleListUsers(deps))
		api.Get("/user-history/{userId}", HandleUserHistory(deps))
		api.Get("/recommendations/{userId}", HandleRecommendations(deps))
		api.Get("/products", HandleProducts(deps))

		api.Group(func(write chi.Router) {
			write.Use(writeLimiter.Middleware)
			write.Post("/add-user", HandleAddUser(deps))
			write.Post("/add-purchase", HandleAddPurchase(deps))
		})
	})

	return r
}

// ConsoleRouter builds the console server: the page shell, its script and the
// websocket the page talks over.
func ConsoleRouter(deps *ConsoleDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger("console"))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	mountOps(r, "shopreco-console")

	r.Get("/", HandleConsolePage())
	r.Handle("/static/*", HandleConsoleAssets())
	r.Get("/ws", HandleConsoleSocket(deps.Hub, newUpgrader(deps.Config)))

	return r
}

func mountOps(r chi.Router, service string) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondData(w, r, map[string]string{
			"status":  "ok",
			"service": service,
		})
	})
	r.Handle("/metrics", promhttp.Handler())
}

func newCORS(cfg *configs.AppConfig) *cors.Cors {
	allowed := []string{}
	if cfg.IsDevelopment() {
		allowed = []string{"*"}
	} else if len(cfg.AllowedOrigins) > 0 {
		allowed = cfg.AllowedOrigins
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	})
}

func newUpgrader(cfg *configs.AppConfig) websocket.Upgrader {
	allowedOrigins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if cfg.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
				return true
			}
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}
}
