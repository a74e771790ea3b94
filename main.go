package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ecofood/internal/accounts"
	"ecofood/internal/cache"
	"ecofood/internal/catalog"
	"ecofood/internal/config"
	"ecofood/internal/database"
	"ecofood/internal/handlers"
	"ecofood/internal/messaging"
	"ecofood/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		setupLogger("development")
		log.Fatal().Err(err).Msg("config")
	}
	setupLogger(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.DBName)
	log.Info().Str("database", db.Name()).Msg("MongoDB connected")

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Warn().Err(err).Msg("product index warning")
	}
	if err := database.EnsureAccountIndexes(db); err != nil {
		log.Warn().Err(err).Msg("account index warning")
	}
	if err := database.EnsureTokenIndexes(db); err != nil {
		log.Warn().Err(err).Msg("token index warning")
	}

	var publisher catalog.Publisher = messaging.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		conn, err := messaging.Dial(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq")
		}
		defer conn.Close()

		rabbit, err := messaging.NewRabbitPublisher(conn, cfg.ProductEventsQueue)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq publisher")
		}
		defer rabbit.Close()
		publisher = rabbit
		log.Info().Str("queue", cfg.ProductEventsQueue).Msg("product events enabled")
	}

	var limiter middleware.AttemptLimiter
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = cache.NewRedisAttemptLimiter(redisClient, cfg.LoginMaxAttempts, cfg.LoginWindow)
	} else {
		memory := middleware.NewMemoryAttemptLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow)
		go memory.Cleanup(ctx, 5*time.Minute)
		limiter = memory
	}

	writes := catalog.NewWriteCounter()
	requestDuration := middleware.NewRequestDuration()
	prometheus.MustRegister(writes, requestDuration)

	productStore := database.NewProductStore(db)
	products := catalog.NewService(productStore, publisher,
		catalog.WithPageSizes(cfg.DefaultPageSize, cfg.MaxPageSize),
		catalog.WithWriteCounter(writes),
	)
	accountService := accounts.NewService(
		database.NewAccountStore(db),
		database.NewTokenStore(db),
		accounts.LogNotifier{},
		accounts.Config{
			Secret:          cfg.JWTSecret,
			AccessTTL:       cfg.AccessTokenTTL,
			RefreshTTL:      cfg.RefreshTokenTTL,
			VerificationTTL: cfg.VerificationTTL,
		},
		accounts.WithOwnedDataRemover(productStore),
	)

	if cfg.SeedAdminEmail != "" {
		seedCtx, seedCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := accountService.SeedAdmin(seedCtx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			log.Error().Err(err).Msg("seed admin")
		}
		seedCancel()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Metrics(requestDuration),
	)
	handlers.RegisterRoutes(router, handlers.Dependencies{
		Products:     products,
		Accounts:     accountService,
		Health:       database.NewHealthCheck(db),
		LoginLimiter: limiter,
		JWTSecret:    cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
