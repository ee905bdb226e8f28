package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/farm2home/farm2home-backend/api/routes"
	"github.com/farm2home/farm2home-backend/internal/accounts"
	"github.com/farm2home/farm2home-backend/internal/auth"
	"github.com/farm2home/farm2home-backend/internal/favorites"
	"github.com/farm2home/farm2home-backend/internal/orders"
	"github.com/farm2home/farm2home-backend/internal/products"
	"github.com/farm2home/farm2home-backend/pkg/config"
	"github.com/farm2home/farm2home-backend/pkg/db"
	"github.com/farm2home/farm2home-backend/pkg/logger"
	"github.com/farm2home/farm2home-backend/pkg/metrics"
	"github.com/farm2home/farm2home-backend/pkg/migrate"
	"github.com/farm2home/farm2home-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	accountRepo := accounts.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		AccountRepo: accountRepo,
		JWTConfig:   cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.ServiceParams{
		ProductRepo: productRepo,
		AccountRepo: accountRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		FavoritesRepo: favorites.NewRepository(dbClient.DB()),
		ProductRepo:   productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{DB: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:           cfg,
			Logger:           logg,
			DB:               dbClient,
			Redis:            redisClient,
			Metrics:          httpMetrics,
			MetricsGatherer:  registry,
			AuthService:      authService,
			RegisterService:  registerService,
			ProductsService:  productsService,
			FavoritesService: favoritesService,
			OrdersService:    ordersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
