package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/scraperite/storefront-backend/api/routes"
	authsvc "github.com/scraperite/storefront-backend/internal/auth"
	cartsvc "github.com/scraperite/storefront-backend/internal/cart"
	checkoutsvc "github.com/scraperite/storefront-backend/internal/checkout"
	"github.com/scraperite/storefront-backend/internal/mail"
	"github.com/scraperite/storefront-backend/internal/notifications"
	"github.com/scraperite/storefront-backend/internal/orders"
	"github.com/scraperite/storefront-backend/internal/posts"
	"github.com/scraperite/storefront-backend/internal/products"
	"github.com/scraperite/storefront-backend/internal/resellers"
	"github.com/scraperite/storefront-backend/internal/users"
	stripewebhook "github.com/scraperite/storefront-backend/internal/webhooks/stripe"
	"github.com/scraperite/storefront-backend/pkg/auth/session"
	"github.com/scraperite/storefront-backend/pkg/config"
	"github.com/scraperite/storefront-backend/pkg/db"
	"github.com/scraperite/storefront-backend/pkg/env"
	"github.com/scraperite/storefront-backend/pkg/logger"
	"github.com/scraperite/storefront-backend/pkg/metrics"
	"github.com/scraperite/storefront-backend/pkg/migrate"
	"github.com/scraperite/storefront-backend/pkg/redis"
	pkgstripe "github.com/scraperite/storefront-backend/pkg/stripe"
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

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mailMetrics := metrics.NewMailMetrics(registry)
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	dispatcher, err := mail.NewDispatcher(mail.DispatcherParams{
		Transports: []mail.Transport{
			mail.NewEmailitAPI(cfg.Mail),
			mail.NewEmailitSMTP(cfg.Mail),
			mail.NewDirectSMTP(cfg.Mail),
			mail.NewGmail(cfg.Mail),
		},
		Logger:  logg,
		Metrics: mailMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create mail dispatcher", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	resellerRepo := resellers.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	postsRepo := posts.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:          userRepo,
		ProfileRepo:       resellerRepo,
		TransactionRunner: dbClient,
		SessionManager:    sessionManager,
		ResetTokenStore:   redisClient,
		Mailer:            dispatcher,
		JWTConfig:         cfg.JWT,
		PasswordConfig:    cfg.Password,
		AppConfig:         cfg.App,
		MailConfig:        cfg.Mail,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	resellerService, err := resellers.NewService(resellerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reseller service", err)
		os.Exit(1)
	}

	postsService, err := posts.NewService(postsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create posts service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	sessionClient := checkoutsvc.NewSessionClient(stripeClient)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Sessions: sessionClient,
		Config:   cfg.Checkout,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     ordersRepo,
		Sessions: sessionClient,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.ServiceParams{
		Dispatcher: dispatcher,
		OrdersRepo: ordersRepo,
		Config:     cfg.Mail,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.ServiceParams{
		Catalog:      products.NewCatalogClient(stripeClient),
		MetadataRepo: products.NewMetadataRepository(dbClient.DB()),
		Cache:        redisClient,
		CacheTTL:     cfg.Catalog.CacheTTL,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Recorder: ordersService,
		Notifier: notificationsService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Webhook.IdempotencyTTL, "stripe_event")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			SessionManager:  sessionManager,
			AuthService:     authService,
			CartService:     cartService,
			CheckoutService: checkoutService,
			OrdersService:   ordersService,
			PostsService:    postsService,
			ProductsService: productsService,
			ResellerService: resellerService,
			StripeClient:    stripeClient,
			WebhookService:  webhookService,
			WebhookGuard:    webhookGuard,
			WebhookMetrics:  webhookMetrics,
			MetricsRegistry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
