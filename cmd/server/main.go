package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/memoria-app/memoria-backend/internal/config"
	"github.com/memoria-app/memoria-backend/internal/db"
	httpHandlers "github.com/memoria-app/memoria-backend/internal/http/handlers"
	httpRouter "github.com/memoria-app/memoria-backend/internal/http/router"
	"github.com/memoria-app/memoria-backend/internal/logger"
	"github.com/memoria-app/memoria-backend/internal/payment"
	"github.com/memoria-app/memoria-backend/internal/repository"
	"github.com/memoria-app/memoria-backend/internal/service"
	"github.com/memoria-app/memoria-backend/internal/storage"
	"github.com/memoria-app/memoria-backend/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: failed to load configuration: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: failed to connect to the database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: migrations failed: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: failed to prepare the media store: %v", err)
	}

	stripeClient := payment.NewStripeClient(cfg.StripeBaseURL, cfg.StripeSecretKey, cfg.StripeTimeout)

	// Repositories.
	userRepo := repository.NewUserRepository(dbConn)
	orderRepo := repository.NewOrderRepository(dbConn)
	photoRepo := repository.NewPhotoRepository(dbConn)
	paymentRepo := repository.NewPaymentRepository(dbConn)
	catalogRepo := repository.NewCatalogRepository(dbConn)
	statsRepo := repository.NewStatsRepository(dbConn)
	settlementRepo := repository.NewSettlementRepository(dbConn, orderRepo, paymentRepo)

	// Services.
	authService := service.NewAuthService(userRepo, tokenManager)
	orderService := service.NewOrderService(orderRepo, userRepo, photoRepo, catalogRepo)
	payoutService := service.NewPayoutService(orderRepo, userRepo, photoRepo, settlementRepo, paymentRepo, stripeClient, cfg.ProviderShareRatio, cfg.Currency)
	photoService := service.NewPhotoService(photoRepo, orderService, photoStorage, cfg.MediaBaseURL)
	paymentService := service.NewPaymentService(stripeClient, paymentRepo, orderService, cfg.Currency)
	providerService := service.NewProviderService(userRepo)
	statsService := service.NewStatsService(statsRepo)

	// WebSockets.
	hub := ws.NewHub()
	go hub.Run()
	orderService.SetHub(hub)
	payoutService.SetHub(hub)

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(authService)
	orderHandler := httpHandlers.NewOrderHandler(orderService, payoutService)
	photoHandler := httpHandlers.NewPhotoHandler(photoService)
	paymentHandler := httpHandlers.NewPaymentHandler(paymentService)
	providerHandler := httpHandlers.NewProviderHandler(providerService)
	catalogHandler := httpHandlers.NewCatalogHandler(catalogRepo)
	statsHandler := httpHandlers.NewStatsHandler(statsService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		orderHandler,
		photoHandler,
		paymentHandler,
		providerHandler,
		catalogHandler,
		statsHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: http server shutdown error: %v", err)
		}
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server exited with error: %v", err)
	}
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: failed to close the database: %v", err)
	}
}
