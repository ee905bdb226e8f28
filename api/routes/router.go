package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farm2home/farm2home-backend/api/controllers"
	"github.com/farm2home/farm2home-backend/api/middleware"
	"github.com/farm2home/farm2home-backend/internal/auth"
	"github.com/farm2home/farm2home-backend/internal/favorites"
	"github.com/farm2home/farm2home-backend/internal/orders"
	"github.com/farm2home/farm2home-backend/internal/products"
	"github.com/farm2home/farm2home-backend/pkg/config"
	"github.com/farm2home/farm2home-backend/pkg/enums"
	"github.com/farm2home/farm2home-backend/pkg/logger"
	"github.com/farm2home/farm2home-backend/pkg/metrics"
	"github.com/farm2home/farm2home-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               controllers.Pinger
	Redis            *redis.Client
	Metrics          *metrics.HTTPMetrics
	MetricsGatherer  prometheus.Gatherer
	AuthService      auth.Service
	RegisterService  auth.RegisterService
	ProductsService  products.Service
	FavoritesService favorites.Service
	OrdersService    orders.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": p.DB,
			"redis":    p.Redis,
		}))
	})

	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/profile", controllers.AuthProfile(p.AuthService, logg))
			r.Put("/profile", controllers.AuthUpdateProfile(p.AuthService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			// Browsing the catalog needs no account.
			r.Get("/", controllers.ProductsList(p.ProductsService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Get("/favorites", controllers.FavoritesList(p.FavoritesService, logg))
				r.Post("/{productId}/favorite", controllers.FavoritesToggle(p.FavoritesService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(string(enums.AccountRoleFarmer), logg))
					r.Post("/", controllers.ProductsCreate(p.ProductsService, logg))
					r.Get("/my-products", controllers.ProductsMine(p.ProductsService, logg))
					r.Put("/{productId}", controllers.ProductsUpdate(p.ProductsService, logg))
					r.Delete("/{productId}", controllers.ProductsDelete(p.ProductsService, logg))
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/ping", controllers.PrivatePing())

			r.Route("/orders", func(r chi.Router) {
				// Any authenticated account can buy; ownership checks in the
				// service scope the rest.
				r.Post("/", controllers.OrdersCreate(p.OrdersService, logg))
				r.Get("/my-orders", controllers.OrdersMine(p.OrdersService, logg))
				r.Put("/{orderId}/cancel", controllers.OrdersCancel(p.OrdersService, logg))
				r.Get("/earnings", controllers.OrdersEarnings(p.OrdersService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(string(enums.AccountRoleFarmer), logg))
					r.Get("/farmer-orders", controllers.OrdersForFarmer(p.OrdersService, logg))
					r.Put("/{orderId}/status", controllers.OrdersUpdateStatus(p.OrdersService, logg))
				})
			})
		})
	})

	return r
}
