package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/upravdom/resident-portal/internal/adapters/cache"
	"github.com/upravdom/resident-portal/internal/adapters/database"
	"github.com/upravdom/resident-portal/internal/adapters/messaging"
	"github.com/upravdom/resident-portal/internal/adapters/storage"
	"github.com/upravdom/resident-portal/internal/api/handlers"
	"github.com/upravdom/resident-portal/internal/api/middleware"
	"github.com/upravdom/resident-portal/internal/api/routes"
	"github.com/upravdom/resident-portal/internal/application/services"
	"github.com/upravdom/resident-portal/internal/domain/providers"
	"github.com/upravdom/resident-portal/internal/infrastructure/clients/postgres"
	redisclient "github.com/upravdom/resident-portal/internal/infrastructure/clients/redis"
	"github.com/upravdom/resident-portal/internal/infrastructure/observability"
	"github.com/upravdom/resident-portal/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("resident-portal", cfg.Environment)
	logger := observability.GetLogger()

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pgClient.Close()

	// Redis is optional; catalog listings fall back to the database
	var cacheProvider providers.CacheProvider
	if redisClient, err := redisclient.NewClient(&cfg.Redis); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, catalog caching disabled")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// The Telegram gateway is optional; broadcasts record failed deliveries
	var gateway providers.MessageGateway
	if sender, err := messaging.NewTelegramSender(&cfg.Telegram); err != nil {
		logger.Warn().Err(err).Msg("telegram gateway disabled")
	} else {
		gateway = sender
	}

	var photoStore providers.PhotoStore
	if store, err := storage.NewLocalPhotoStore(cfg.Storage.UploadDir); err != nil {
		logger.Warn().Err(err).Msg("photo storage disabled")
	} else {
		photoStore = store
	}

	userRepo := database.NewUserAdapter(pgClient)
	meterRepo := database.NewMeterAdapter(pgClient)
	complaintRepo := database.NewComplaintAdapter(pgClient)
	notifRepo := database.NewNotificationAdapter(pgClient)
	catalogRepo := database.NewCatalogAdapter(pgClient)

	authService := services.NewAuthService(userRepo, &cfg.Auth)
	userService := services.NewUserService(userRepo)
	meterService := services.NewMeterService(meterRepo, photoStore)
	complaintService := services.NewComplaintService(complaintRepo)
	broadcastService := services.NewBroadcastService(notifRepo, userRepo, gateway)
	catalogService := services.NewCatalogService(catalogRepo, cacheProvider)
	reportService := services.NewReportService(sqlx.NewDb(pgClient.DB(), "postgres"), notifRepo)

	if err := catalogService.Seed(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed catalogs")
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	router := routes.New(routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		User:         handlers.NewUserHandler(userService, reportService),
		Meter:        handlers.NewMeterHandler(meterService),
		Complaint:    handlers.NewComplaintHandler(complaintService),
		Notification: handlers.NewNotificationHandler(broadcastService),
		Catalog:      handlers.NewCatalogHandler(catalogService),
		Admin: handlers.NewAdminHandler(
			meterService, complaintService, broadcastService, reportService, userService,
		),
	}, authMiddleware)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}
