package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"habitTrackerAPI/handlers"
	"habitTrackerAPI/internal/config"
	"habitTrackerAPI/internal/db"
	"habitTrackerAPI/internal/events"
	"habitTrackerAPI/internal/idempotency"
	"habitTrackerAPI/internal/logger"
	"habitTrackerAPI/internal/notification"
	"habitTrackerAPI/internal/repository"
	"habitTrackerAPI/internal/workers"
	"habitTrackerAPI/middleware"
	"habitTrackerAPI/services"

	_ "net/http/pprof"
)

const dispatchWorkers = 4

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := db.NewConnection(startCtx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("Closing database connection pool...")
		pool.Close()
	}()

	if err := db.Migrate(startCtx, pool, log); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(pool, log)
	habitRepo := repository.NewHabitRepository(pool, log)
	taskLogRepo := repository.NewTaskLogRepository(pool, log)
	workoutRepo := repository.NewWorkoutLogRepository(pool, log)
	categoryRepo := repository.NewCategoryRepository(pool, log)

	userService := services.NewUserService(userRepo, log)
	habitService := services.NewHabitService(habitRepo, userRepo, categoryRepo, nil, log)
	workoutService := services.NewWorkoutService(userRepo, workoutRepo, nil, cfg.Habits.DefaultTimezone, log)
	categoryService := services.NewCategoryService(categoryRepo, userRepo, log)
	habitLogService := services.NewHabitLogService(habitRepo, taskLogRepo, nil, services.LogServiceConfig{
		DefaultTimezone: cfg.Habits.DefaultTimezone,
		DefaultLimit:    cfg.Habits.DefaultLogLimit,
		MaxLimit:        cfg.Habits.MaxLogLimit,
	}, log)

	dispatcher := services.NewNotificationDispatcher(dispatchWorkers, log)
	habitLogService.SetDispatcher(dispatcher)

	if cfg.Redis.Addr != "" {
		rdb, err := idempotency.NewClient(startCtx, cfg.Redis)
		if err != nil {
			log.Warn("Could not connect to redis, idempotency keys disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			habitLogService.SetDeduper(idempotency.NewDeduper(rdb, cfg.Redis.IdempotencyTTL, log))
			log.Info("Idempotency guard enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	if cfg.MQ.URL != "" {
		publisher, err := events.NewPublisher(cfg.MQ.URL, log)
		if err != nil {
			log.Warn("Could not connect to message broker, events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			dispatcher.SetEventPublisher(publisher)
		}
	}

	fcmService, err := notification.NewFCMService(startCtx, cfg.FCM.CredentialsFile, log)
	if err != nil {
		log.Warn("Could not initialize FCM, push notifications disabled", zap.Error(err))
	} else {
		dispatcher.SetPushProvider(fcmService)
		log.Info("FCM Push Provider initialized successfully")
	}

	if cfg.Reminders.Enabled {
		reminders, err := workers.NewReminderWorker(habitRepo, dispatcher, nil, cfg.Reminders, cfg.Habits.DefaultTimezone, log)
		if err != nil {
			return err
		}
		reminders.Start(ctx)
		log.Info("Due-habit reminders enabled", zap.Int("hour", cfg.Reminders.Hour))
	}

	middleware.InitPrometheus()
	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	go limiter.Cleanup(ctx)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Use(limiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.Metrics.User, cfg.Metrics.Pass)(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(cfg.Pprof.Secret)(http.DefaultServeMux))

	api := &handlers.API{
		Users:      handlers.NewUserHandler(userService, log),
		Habits:     handlers.NewHabitHandler(habitService, log),
		HabitLogs:  handlers.NewHabitLogHandler(habitLogService, log),
		Workouts:   handlers.NewWorkoutHandler(workoutService, log),
		Categories: handlers.NewCategoryHandler(categoryService, log),
		DB:         pool,
	}
	api.Register(r)

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID", "X-Pprof-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length", "X-Request-ID"}),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		dispatcher.Stop()
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	dispatcher.Stop()

	log.Info("Server shutdown complete")
	return nil
}
