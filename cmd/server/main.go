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

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/app"
	"github.com/Freeeeeet/scheduler_grading/internal/auth"
	"github.com/Freeeeeet/scheduler_grading/internal/config"
	"github.com/Freeeeeet/scheduler_grading/internal/controller/notify"
	"github.com/Freeeeeet/scheduler_grading/internal/controller/web"
	"github.com/Freeeeeet/scheduler_grading/internal/metrics"
	"github.com/Freeeeeet/scheduler_grading/internal/preference"
	"github.com/Freeeeeet/scheduler_grading/internal/repository"
	"github.com/Freeeeeet/scheduler_grading/internal/service"
	"github.com/Freeeeeet/scheduler_grading/internal/view"
)

// срок жизни токенов, которые выдаёт сервер; gradectl задаёт свой
const sessionTTL = 12 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting grading service",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("prefs_backend", cfg.PrefsBackend))

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if cfg.RunMigrations {
		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		migrator.Close()
	}

	prefs, closePrefs := newPreferenceStore(ctx, cfg, pool, logger)
	defer closePrefs()

	table, err := view.NewGradingTable(cfg.GridPageSize, prefs, logger)
	if err != nil {
		logger.Fatal("Invalid grading table configuration", zap.Error(err))
	}

	gradingRepo := repository.NewGradingRepository(pool)
	schedulerRepo := repository.NewSchedulerRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)

	perms := service.RolePermissions{}
	gradingSvc := service.NewGradingService(gradingRepo, schedulerRepo, userRepo, perms, logger)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, schedulerRepo, perms, newNotifier(cfg, logger), logger)
	exportSvc := service.NewExportService(cfg.Location(), logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := web.NewHandler(gradingSvc, appointmentSvc, exportSvc, table, m, cfg.Location(), logger)
	engine := web.Setup(web.RouterConfig{
		Handler:      handler,
		Tokens:       auth.NewManager(cfg.JWTSecret, sessionTTL),
		Users:        userRepo,
		Metrics:      m,
		Gatherer:     reg,
		CSRFKey:      []byte(cfg.CSRFKey),
		CookieSecure: cfg.CookieSecure,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	appointmentSvc.Wait()

	logger.Info("Server stopped")
}

// newPreferenceStore основное хранилище настроек и, если задан REDIS_ADDR, кэш поверх него.
// Недоступный Redis не мешает запуску
func newPreferenceStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (preference.Store, func()) {
	var (
		store   preference.Store
		closers []func()
	)

	switch cfg.PrefsBackend {
	case config.PrefsBackendBolt:
		bolt, err := preference.OpenBoltStore(cfg.PrefsBoltPath)
		if err != nil {
			logger.Fatal("Failed to open preference store", zap.String("path", cfg.PrefsBoltPath), zap.Error(err))
		}
		store = bolt
		closers = append(closers, func() { bolt.Close() })
	default:
		store = repository.NewPreferenceRepository(pool)
	}

	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("Redis unavailable, preference cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			rdb.Close()
		} else {
			store = preference.NewCachedStore(store, rdb, cfg.PrefsCacheTTL, logger)
			closers = append(closers, func() { rdb.Close() })
		}
	}

	return store, func() {
		for _, c := range closers {
			c()
		}
	}
}

func newNotifier(cfg *config.Config, logger *zap.Logger) service.Notifier {
	if cfg.TelegramToken == "" {
		logger.Info("TELEGRAM_TOKEN not set, notifications disabled")
		return notify.Nop{}
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Warn("Failed to create telegram bot, notifications disabled", zap.Error(err))
		return notify.Nop{}
	}
	return notify.NewTelegramNotifier(b, cfg.Location(), logger)
}
