package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/handler/advisor"
	"github.com/zhouzirui/wellness/backend/internal/handler/home"
	"github.com/zhouzirui/wellness/backend/internal/handler/proxy"
	middlewarePkg "github.com/zhouzirui/wellness/backend/internal/middleware"
)

func newBaseRouter(logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	return r
}

// NewProxyRouter wires the model proxy routes.
func NewProxyRouter(runtime proxy.Runtime, landing *home.Handler, logger *zap.Logger) http.Handler {
	r := newBaseRouter(logger)

	if landing != nil {
		r.Method(http.MethodGet, "/", landing)
	}

	proxyHandler := proxy.New(runtime, logger.Named("proxy"))
	r.Route("/api", func(api chi.Router) {
		proxyHandler.RegisterRoutes(api)
	})

	return r
}

// NewAdvisorRouter wires the heuristic advisor routes.
func NewAdvisorRouter(adv advisor.Advisor, logger *zap.Logger) http.Handler {
	r := newBaseRouter(logger)

	advisorHandler := advisor.New(adv, logger.Named("advisor"))
	advisorHandler.RegisterRoutes(r)

	return r
}
