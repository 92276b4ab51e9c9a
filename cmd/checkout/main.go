package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/api"
	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/application/services"
	"github.com/DanielPopoola/gst-checkout/internal/config"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/gst"
	"github.com/DanielPopoola/gst-checkout/internal/infrastructure/cache"
	"github.com/DanielPopoola/gst-checkout/internal/infrastructure/gateway"
	"github.com/DanielPopoola/gst-checkout/internal/infrastructure/persistence/memory"
	"github.com/DanielPopoola/gst-checkout/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/gst-checkout/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/gst-checkout/internal/interfaces/rest/middleware"
)

const serviceName = "gst-checkout"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting checkout service",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()

	var (
		orderRepo   application.OrderRepository
		paymentRepo application.PaymentRepository
	)
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if err := postgres.Migrate(cfg.Database.MigrateURL(), logger); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		orderRepo = postgres.NewOrderRepository(db.Pool)
		paymentRepo = postgres.NewPaymentRepository(db.Pool)
	default:
		logger.Warn("using in-memory store; data is lost on restart")
		orderRepo = memory.NewOrderRepository()
		paymentRepo = memory.NewPaymentRepository()
	}

	var eventLog application.EventLog = cache.NopEventLog{}
	if cfg.Cache.RedisAddr != "" {
		redisLog := cache.NewRedisEventLog(cfg.Cache, serviceName)
		if err := redisLog.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, webhook de-duplication disabled", "addr", cfg.Cache.RedisAddr, "error", err)
		} else {
			eventLog = redisLog
		}
		defer redisLog.Close()
	}

	gateways := application.Gateways{
		domain.ProviderRazorpay: gateway.WithTimeout(gateway.NewRazorpayClient(cfg.Gateway), cfg.Gateway.Timeout),
		domain.ProviderCOD:      gateway.WithTimeout(gateway.NewCashOnDelivery(), cfg.Gateway.Timeout),
	}

	var verifier *gateway.WebhookVerifier
	if cfg.Gateway.WebhookSecret != "" {
		verifier = gateway.NewWebhookVerifier(cfg.Gateway.WebhookSecret)
	} else {
		logger.Warn("webhook secret not configured, signatures are not checked")
	}

	engine := gst.NewEngine(cfg.Tax.DefaultRateDecimal(), cfg.Tax.NormalizeStates)
	orderService := services.NewOrderService(orderRepo, engine, logger)
	paymentService := services.NewPaymentService(paymentRepo, gateways, engine, orderService, logger)
	orderService.UsePayments(paymentService)
	dispatcher := services.NewDispatcher(paymentService, eventLog, logger)

	doc, err := api.Load()
	if err != nil {
		logger.Error("failed to load openapi document", "error", err)
		os.Exit(1)
	}
	validator, err := middleware.OpenAPIValidator(doc, logger)
	if err != nil {
		logger.Error("failed to build request validator", "error", err)
		os.Exit(1)
	}

	h := handlers.NewHandlers(orderService, paymentService, dispatcher, engine, verifier, logger)
	router := handlers.NewRouter(h,
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.Timeout(cfg.Server.RequestTimeout),
		validator,
	)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
