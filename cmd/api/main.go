package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/sipeslibya/storefront-backend/api/routes"
	"github.com/sipeslibya/storefront-backend/internal/auth"
	"github.com/sipeslibya/storefront-backend/internal/cart"
	"github.com/sipeslibya/storefront-backend/internal/categories"
	checkoutsvc "github.com/sipeslibya/storefront-backend/internal/checkout"
	"github.com/sipeslibya/storefront-backend/internal/customers"
	"github.com/sipeslibya/storefront-backend/internal/dashboard"
	"github.com/sipeslibya/storefront-backend/internal/messages"
	"github.com/sipeslibya/storefront-backend/internal/notify"
	"github.com/sipeslibya/storefront-backend/internal/orders"
	"github.com/sipeslibya/storefront-backend/internal/products"
	"github.com/sipeslibya/storefront-backend/internal/reviews"
	"github.com/sipeslibya/storefront-backend/internal/settings"
	"github.com/sipeslibya/storefront-backend/pkg/auth/session"
	"github.com/sipeslibya/storefront-backend/pkg/config"
	"github.com/sipeslibya/storefront-backend/pkg/db"
	"github.com/sipeslibya/storefront-backend/pkg/imgbb"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
	"github.com/sipeslibya/storefront-backend/pkg/metrics"
	"github.com/sipeslibya/storefront-backend/pkg/migrate"
	"github.com/sipeslibya/storefront-backend/pkg/redis"
	"github.com/sipeslibya/storefront-backend/pkg/telegram"
)

// Products at or below this stock level are flagged for restocking.
const lowStockThreshold = 10

const shutdownTimeout = 15 * time.Second

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	telegramClient, err := telegram.NewClient(cfg.Telegram, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create telegram client", err)
		os.Exit(1)
	}
	imgbbClient, err := imgbb.NewClient(cfg.ImgBB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create imgbb client", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	adminRepo := auth.NewRepository(conn)
	categoryRepo := category.NewRepository(conn)
	productRepo := product.NewRepository(conn)
	customerRepo := customer.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	reviewRepo := review.NewRepository(conn)
	messageRepo := message.NewRepository(conn)
	settingsRepo := settings.NewRepository(conn)
	dashboardRepo := dashboard.NewRepository(conn)

	notifyService, err := notify.NewService(telegramClient, settingsRepo, cfg.Telegram, storefrontMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notify service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		AdminRepo:      adminRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(productRepo, categoryRepo, lowStockThreshold)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	categoryService, err := category.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}
	customerService, err := customer.NewService(customerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orderRepo, notifyService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	reviewService, err := review.NewService(reviewRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}
	messageService, err := message.NewService(messageRepo, notifyService)
	if err != nil {
		logg.Error(context.Background(), "failed to create message service", err)
		os.Exit(1)
	}
	settingsService, err := settings.NewService(settingsRepo, telegramClient, cfg.Telegram)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	dashboardService, err := dashboard.NewService(dashboardRepo, lowStockThreshold)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	cartManager, err := cart.NewManager(cfg.Cart, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Tx:           dbClient,
		Carts:        cartManager,
		CustomerRepo: customerRepo,
		OrderRepo:    orderRepo,
		ProductRepo:  productRepo,
		Notifier:     notifyService,
		Metrics:      storefrontMetrics,
		Logger:       logg,
		Checkout:     cfg.Checkout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go cartManager.Run(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, routes.Services{
			Auth:       authService,
			Products:   productService,
			Categories: categoryService,
			Carts:      cartManager,
			Checkout:   checkoutService,
			Reviews:    reviewService,
			Messages:   messageService,
			Customers:  customerService,
			Orders:     orderService,
			Dashboard:  dashboardService,
			Settings:   settingsService,
			Images:     imgbbClient,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
		logg.Error(ctx, "error closing clients", err)
	}

	logg.Info(ctx, "api server stopped")
}
