package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merchkit/bxgy-backend/api/controllers"
	"github.com/merchkit/bxgy-backend/api/middleware"
	"github.com/merchkit/bxgy-backend/internal/bundles"
	"github.com/merchkit/bxgy-backend/internal/catalog"
	"github.com/merchkit/bxgy-backend/pkg/config"
	"github.com/merchkit/bxgy-backend/pkg/logger"
	pkgredis "github.com/merchkit/bxgy-backend/pkg/redis"
)

// Params carries everything the router wires together. Redis and the
// metrics registry are optional; their routes degrade to pass-through.
type Params struct {
	Config           *config.Config
	Logger           *logger.Logger
	DBPinger         controllers.Pinger
	RedisPinger      controllers.Pinger
	IdempotencyStore pkgredis.IdempotencyStore
	Registry         *prometheus.Registry
	BundleService    bundles.Service
	CatalogService   catalog.Service
}

func NewRouter(params Params) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(params.Logger),
		middleware.RequestID(params.Logger),
		middleware.Logging(params.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(params.Config))
		r.Get("/ready", controllers.HealthReady(params.Config, params.Logger, params.DBPinger, params.RedisPinger))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(params.CatalogService, params.Logger))

		r.Route("/discounts", func(r chi.Router) {
			r.Get("/", controllers.ListDiscounts(params.BundleService, params.Logger))
			r.With(middleware.Idempotency(params.IdempotencyStore, params.Logger)).
				Post("/", controllers.CreateDiscount(params.BundleService, params.Logger))
			r.Delete("/{id}", controllers.DeleteDiscount(params.BundleService, params.Logger))
		})
	})

	return r
}
