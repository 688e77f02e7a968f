package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sangkips/billing-counter/internal/application/service"
	"github.com/sangkips/billing-counter/internal/config"
	"github.com/sangkips/billing-counter/internal/domain/enum"
	"github.com/sangkips/billing-counter/internal/domain/pricing"
	"github.com/sangkips/billing-counter/internal/infrastructure/backend"
	"github.com/sangkips/billing-counter/internal/infrastructure/database"
	"github.com/sangkips/billing-counter/internal/infrastructure/events"
	"github.com/sangkips/billing-counter/internal/infrastructure/kvstore"
	"github.com/sangkips/billing-counter/internal/infrastructure/repository"
	"github.com/sangkips/billing-counter/internal/presentation/http/handler"
	"github.com/sangkips/billing-counter/internal/presentation/http/routes"
	"github.com/sangkips/billing-counter/pkg/logger"
	"github.com/sangkips/billing-counter/pkg/printer"
	"github.com/sangkips/billing-counter/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()
	appLog := logger.New(cfg.App.Name)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is shared by the state store and the event publisher when
	// either selects it.
	var redisClient *redis.Client
	if cfg.Store.Driver == "redis" || cfg.Events.Driver == "redis" {
		client, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		redisClient = client
		defer redisClient.Close()
	}

	store := newStateStore(cfg, redisClient)

	publisher, err := newPublisher(cfg, redisClient)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}
	defer publisher.Close()

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	tillRepo := repository.NewTillRepository(store, appLog)
	heldRepo := repository.NewHeldOrderRepository(store, appLog)
	favouriteRepo := repository.NewFavouriteRepository(store, appLog)
	sessionRepo := repository.NewSessionRepository(store, appLog)
	idempotencyRepo := repository.NewIdempotencyRepository(store, appLog)

	// Backend API
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, service.SessionToken(sessionRepo))
	authenticator := backend.NewAuthenticator(client)
	catalogRepo := backend.NewCatalogRepository(client)
	orderRepo := backend.NewOrderRepository(client)

	// Initialize thermal printer; receipts that cannot reach it are spooled as HTML
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		appLog.Warn("startup", "", "failed to initialize printer, printing disabled", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	var spool printer.Printer
	if cfg.Printer.SpoolDir != "" {
		spool = printer.NewSpoolPrinter(cfg.Printer.SpoolDir, ".html")
	}

	rates := pricing.NewRates(cfg.Pricing.VATPercent, cfg.Pricing.ServicePercent, cfg.Pricing.InclusiveBase)
	location := cfg.Business.Location()

	orderType, err := enum.ParseOrderType(cfg.Billing.DefaultOrderType)
	if err != nil {
		appLog.Warn("startup", "", "invalid default order type, using Eat In", err)
	}
	paymentMethod, err := enum.ParsePaymentMethod(cfg.Billing.DefaultPaymentMethod)
	if err != nil {
		appLog.Warn("startup", "", "invalid default payment method, using none", err)
	}

	// Initialize services
	printerService := service.NewPrinterService(thermalPrinter, spool, service.ReceiptIdentity{
		BusinessName:   cfg.Business.Name,
		Address:        cfg.Business.Address,
		Phone:          cfg.Business.Phone,
		Email:          cfg.Business.Email,
		CurrencySymbol: cfg.Business.CurrencySymbol,
	}, rates, cfg.Printer.CharWidth, appLog)
	catalogService := service.NewCatalogService(catalogRepo, favouriteRepo, appLog)
	tillService := service.NewTillService(authenticator, tillRepo, publisher, appLog)
	billingService := service.NewBillingService(catalogService, tillService, orderRepo, sessionRepo, printerService, publisher, service.BillingOptions{
		Rates:                rates,
		Location:             location,
		DefaultOrderType:     orderType,
		DefaultPaymentMethod: paymentMethod,
	}, appLog)
	heldService := service.NewHeldOrderService(billingService, tillService, heldRepo, printerService, publisher, appLog)
	historyService := service.NewOrderHistoryService(orderRepo, printerService, location, appLog)
	authService := service.NewAuthService(authenticator, sessionRepo, jwtManager, appLog)

	// The menu may be unreachable at boot; the refresh loop keeps trying.
	if _, err := catalogService.Load(ctx); err != nil {
		appLog.Warn("startup", "", "initial menu load failed", err)
	}
	billingService.RefreshPendingNumber(ctx)

	refresh := time.Duration(cfg.Billing.CatalogRefreshSeconds) * time.Second
	if refresh > 0 {
		go catalogService.Run(ctx, refresh)
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Till:      handler.NewTillHandler(tillService),
		Cart:      handler.NewCartHandler(billingService),
		HeldOrder: handler.NewHeldOrderHandler(heldService),
		Order:     handler.NewOrderHandler(historyService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Log:             appLog,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("startup", "", "starting "+cfg.App.Name+" on port "+port+" ("+cfg.App.Env+")")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("shutdown", "", "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("shutdown", "", "server shutdown failed", err)
	}
}

// newStateStore picks where till, held orders, favourites and the session
// are kept.
func newStateStore(cfg *config.Config, redisClient *redis.Client) kvstore.Store {
	switch cfg.Store.Driver {
	case "redis":
		return kvstore.NewRedisStore(redisClient, "counter:")
	case "postgres":
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		return kvstore.NewPostgresStore(db)
	default:
		return kvstore.NewMemoryStore()
	}
}

func newPublisher(cfg *config.Config, redisClient *redis.Client) (events.Publisher, error) {
	switch cfg.Events.Driver {
	case "redis":
		return events.NewRedisPublisher(redisClient), nil
	case "rabbitmq":
		return events.NewRabbitPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
	default:
		return events.NewNoopPublisher(), nil
	}
}
