package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openshelf/storefront-backend/api/controllers"
	"github.com/openshelf/storefront-backend/api/middleware"
	"github.com/openshelf/storefront-backend/internal/auth"
	cartsvc "github.com/openshelf/storefront-backend/internal/cart"
	"github.com/openshelf/storefront-backend/internal/catalog"
	checkoutsvc "github.com/openshelf/storefront-backend/internal/checkout"
	ordersvc "github.com/openshelf/storefront-backend/internal/orders"
	"github.com/openshelf/storefront-backend/pkg/config"
	"github.com/openshelf/storefront-backend/pkg/db"
	"github.com/openshelf/storefront-backend/pkg/logger"
	"github.com/openshelf/storefront-backend/pkg/metrics"
	"github.com/openshelf/storefront-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *db.Client
	Redis       *redis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	AuthService     auth.Service
	CatalogService  catalog.Service
	CartService     cartsvc.Service
	OrdersService   ordersvc.Service
	CheckoutService checkoutsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
				With(middleware.Idempotency(deps.Redis, logg)).
				Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.CatalogService, logg))
			r.Get("/{productID}", controllers.ProductDetail(deps.CatalogService, logg))
		})

		if !cfg.App.IsProd() {
			r.Get("/db-view", controllers.DBView(deps.DB, logg))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartList(deps.CartService, logg))
				r.Post("/", controllers.CartAdd(deps.CartService, logg))
				r.Put("/{lineID}", controllers.CartUpdateLine(deps.CartService, logg))
				r.Delete("/{lineID}", controllers.CartRemoveLine(deps.CartService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(deps.OrdersService, logg))
				r.Post("/", controllers.OrderCreate(deps.CheckoutService, logg))
			})
		})
	})

	return r
}
