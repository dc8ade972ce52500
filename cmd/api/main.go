package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aarogyam-agencies/storefront-backend/api/routes"
	authsvc "github.com/aarogyam-agencies/storefront-backend/internal/auth"
	cartsvc "github.com/aarogyam-agencies/storefront-backend/internal/cart"
	checkoutsvc "github.com/aarogyam-agencies/storefront-backend/internal/checkout"
	"github.com/aarogyam-agencies/storefront-backend/internal/notifications"
	ordersvc "github.com/aarogyam-agencies/storefront-backend/internal/orders"
	productsvc "github.com/aarogyam-agencies/storefront-backend/internal/products"
	profilesvc "github.com/aarogyam-agencies/storefront-backend/internal/profiles"
	"github.com/aarogyam-agencies/storefront-backend/pkg/auth/session"
	"github.com/aarogyam-agencies/storefront-backend/pkg/config"
	"github.com/aarogyam-agencies/storefront-backend/pkg/db"
	"github.com/aarogyam-agencies/storefront-backend/pkg/logger"
	"github.com/aarogyam-agencies/storefront-backend/pkg/migrate"
	"github.com/aarogyam-agencies/storefront-backend/pkg/pubsub"
	"github.com/aarogyam-agencies/storefront-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(
		authsvc.NewRepository(dbClient.DB()),
		sessionManager,
		cfg.JWT,
		cfg.Password,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productsRepo := productsvc.NewRepository(dbClient.DB())
	productsService, err := productsvc.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartStorage, err := cartsvc.NewRedisStorageFactory(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart storage", err)
		os.Exit(1)
	}
	cartService, err := cartsvc.NewService(cartStorage, productsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Notify.Timezone)
	if err != nil {
		logg.Error(context.Background(), "invalid notify timezone", err)
		os.Exit(1)
	}

	ordersRepo := ordersvc.NewRepository(dbClient.DB())
	ordersService, err := ordersvc.NewService(ordersRepo, loc)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	relay, err := notifications.NewRelay(cfg.Notify.WhatsAppNumber, loc)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification relay", err)
		os.Exit(1)
	}

	// The order event stream is optional; checkout works without it and
	// the relay link still reaches the storefront synchronously.
	var publisher *notifications.Publisher
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub client", err)
			}
		}()

		publisher, err = notifications.NewPublisher(pubsubClient.OrdersPublisher())
		if err != nil {
			logg.Error(context.Background(), "failed to create order publisher", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "pubsub project not configured, order events disabled")
	}

	checkoutService, err := newCheckoutService(dbClient, cartService, ordersRepo, publisher, relay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	profilesService, err := profilesvc.NewService(profilesvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create profiles service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Sessions: sessionManager,
			Auth:     authService,
			Products: productsService,
			Cart:     cartService,
			Checkout: checkoutService,
			Orders:   ordersService,
			Profiles: profilesService,
			Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func newCheckoutService(dbClient *db.Client, cart cartsvc.Service, ordersRepo ordersvc.Repository, publisher *notifications.Publisher, relay *notifications.Relay, logg *logger.Logger) (checkoutsvc.Service, error) {
	if publisher != nil {
		return checkoutsvc.NewService(dbClient, cart, ordersRepo, publisher, relay, logg)
	}
	return checkoutsvc.NewService(dbClient, cart, ordersRepo, nil, relay, logg)
}
