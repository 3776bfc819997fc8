package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskhive/backend/api/handler"
	"github.com/taskhive/backend/internal/config"
	"github.com/taskhive/backend/internal/infrastructure/blob"
	"github.com/taskhive/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskhive/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskhive/backend/internal/infrastructure/redis"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/realtime"
	"github.com/taskhive/backend/internal/router"
	"github.com/taskhive/backend/internal/services"
	"github.com/taskhive/backend/internal/services/lifecycle"
	"github.com/taskhive/backend/pkg/httpcontext"
	"github.com/taskhive/backend/pkg/logger"
	"github.com/taskhive/backend/repository/postgres"
	redisRepo "github.com/taskhive/backend/repository/redis"
	analyticsUC "github.com/taskhive/backend/usecase/analytics"
	authUC "github.com/taskhive/backend/usecase/auth"
	notificationUC "github.com/taskhive/backend/usecase/notification"
	taskUC "github.com/taskhive/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	blobStore, err := blob.Open(cfg.Blob.Path, "attachments")
	if err != nil {
		zapLogger.Fatal("failed to open blob store", zap.Error(err))
	}
	manager.Register("blob", func(ctx context.Context) error {
		return blobStore.Close()
	})

	mon := monitor.New(pool, redisClient, blobStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.TokenTTL)

	hub := realtime.NewHub(zapLogger)

	sweeper := services.NewRetentionSweeper(notificationRepo, services.RetentionConfig{
		Interval: cfg.Retention.SweepInterval,
		MaxAge:   cfg.Retention.MaxAge,
	}, zapLogger)
	sweeper.Start()
	manager.Register("retention_sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.TokenTTL, zapLogger)
	notificationUseCase := notificationUC.New(notificationRepo, hub, zapLogger)
	taskUseCase := taskUC.New(taskRepo, userRepo, notificationUseCase, blobStore, zapLogger)
	analyticsUseCase := analyticsUC.New(analyticsRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:         apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:         apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Notification: apiHandler.NewNotificationHandler(notificationUseCase, ctxAdapter, zapLogger),
		Analytics:    apiHandler.NewAnalyticsHandler(analyticsUseCase, ctxAdapter, zapLogger),
		WS:           apiHandler.NewWSHandler(hub, cfg.JWT.Secret, authUseCase, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
