package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zhouzirui/eureka/backend/internal/handler/chat"
	"github.com/zhouzirui/eureka/backend/internal/handler/handoff"
	"github.com/zhouzirui/eureka/backend/internal/handler/persona"
	"github.com/zhouzirui/eureka/backend/internal/handler/socket"
	middlewarePkg "github.com/zhouzirui/eureka/backend/internal/middleware"
	personaModel "github.com/zhouzirui/eureka/backend/internal/model/persona"
	chatService "github.com/zhouzirui/eureka/backend/internal/service/chat"
)

// Deps are the services the router exposes.
type Deps struct {
	Personas       personaModel.Store
	Engine         *chatService.Service
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
	Logger         *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Route("/api", func(api chi.Router) {
		persona.New(deps.Personas).RegisterRoutes(api)
		chat.New(deps.Engine, logger).RegisterRoutes(api)
		handoff.New(deps.Engine, logger).RegisterRoutes(api)
		socket.New(deps.Engine, deps.AllowedOrigins, logger).RegisterRoutes(api)
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
