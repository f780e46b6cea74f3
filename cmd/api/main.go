package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/barberia-pro/platform/internal/api/router"
	"github.com/barberia-pro/platform/internal/booking"
	appconfig "github.com/barberia-pro/platform/internal/config"
	"github.com/barberia-pro/platform/internal/events"
	"github.com/barberia-pro/platform/internal/gamification"
	"github.com/barberia-pro/platform/internal/insights"
	"github.com/barberia-pro/platform/internal/notify"
	observemetrics "github.com/barberia-pro/platform/internal/observability/metrics"
	"github.com/barberia-pro/platform/internal/payments"
	"github.com/barberia-pro/platform/internal/schedule"
	"github.com/barberia-pro/platform/internal/whatsapp"
	"github.com/barberia-pro/platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting barberia-pro API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis unreachable", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	webhookMetrics := observemetrics.NewWebhookMetrics(registry)

	// Repositories.
	bookingRepo := booking.NewRepository(pool)
	paymentsRepo := payments.NewRepository(pool)
	gamificationRepo := gamification.NewRepository(pool)
	processedStore := events.NewProcessedStore(redisClient, cfg.ProcessedTTL)

	// Outbound collaborators. Without credentials the fakes keep local
	// runs self-contained.
	var waClient whatsapp.Client
	if cfg.WhatsAppAccessToken != "" {
		waClient = whatsapp.NewCloudClient(whatsapp.CloudClientConfig{
			BaseURL:       cfg.WhatsAppBaseURL,
			PhoneNumberID: cfg.WhatsAppPhoneNumberID,
			AccessToken:   cfg.WhatsAppAccessToken,
		})
	} else {
		logger.Warn("whatsapp access token missing, using fake client")
		waClient = whatsapp.NewFakeClient()
	}

	var pixGateway payments.Gateway
	if cfg.PixAPIKey != "" {
		pixGateway = payments.NewHTTPGateway(payments.HTTPGatewayConfig{
			BaseURL:      cfg.PixBaseURL,
			APIKey:       cfg.PixAPIKey,
			PixKey:       cfg.PixKey,
			MerchantName: cfg.PixMerchantName,
			MerchantCity: cfg.PixMerchantCity,
			ChargeTTL:    cfg.PixChargeTTL,
			Logger:       logger,
		})
	} else {
		logger.Warn("pix api key missing, using fake gateway")
		pixGateway = payments.NewFakeGateway()
	}

	// Services.
	notifier := notify.NewService(waClient, bookingRepo, webhookMetrics, logger)
	chargeService := payments.NewChargeService(pixGateway, paymentsRepo, logger)
	availability := schedule.NewAvailability(
		bookingRepo, redisClient, cfg.SlotCacheTTL,
		cfg.OpenHour, cfg.CloseHour, cfg.SlotInterval, logger,
	)
	bookingManager := booking.NewManager(booking.ManagerConfig{
		Store:    bookingRepo,
		Charges:  chargeService,
		Notifier: notifier,
		Slots:    availability,
		Timeout:  cfg.SubmitTimeout,
		Logger:   logger,
	})
	gamificationService := gamification.NewService(gamificationRepo, cfg.ReferralMaxTry, logger)

	// Handlers.
	bookingHandler := booking.NewHandler(booking.HandlerConfig{
		Catalog: bookingRepo,
		Slots:   availability,
		Manager: bookingManager,
		Logger:  logger,
	})
	pixWebhook := payments.NewWebhookHandler(payments.WebhookConfig{
		Charges:      paymentsRepo,
		Appointments: bookingRepo,
		Processed:    processedStore,
		Notifier:     notifier,
		Metrics:      webhookMetrics,
		Logger:       logger,
	})
	waWebhook := whatsapp.NewWebhookHandler(whatsapp.WebhookConfig{
		VerifyToken: cfg.WhatsAppVerifyToken,
		Client:      waClient,
		AutoReply:   cfg.WhatsAppBookingReply,
		Metrics:     webhookMetrics,
		Logger:      logger,
	})
	gamificationHandler := gamification.NewHandler(gamificationService, logger)
	insightsHandler := insights.NewHandler(insights.NewStaticProvider(), logger)

	var corsOrigins []string
	if cfg.CORSOrigins != "" {
		corsOrigins = strings.Split(cfg.CORSOrigins, ",")
	}
	r := router.New(&router.Config{
		Logger:              logger,
		BookingHandler:      bookingHandler,
		PixWebhook:          pixWebhook,
		WhatsAppWebhook:     waWebhook,
		GamificationHandler: gamificationHandler,
		InsightsHandler:     insightsHandler,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  corsOrigins,
		RateLimitPerSecond:  20,
		RateLimitBurst:      40,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
