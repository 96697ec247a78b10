package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/activity"
	"github.com/medconsole/admin-backend/internal/config"
	"github.com/medconsole/admin-backend/internal/database"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/gateway/demo"
	"github.com/medconsole/admin-backend/internal/handler"
	"github.com/medconsole/admin-backend/internal/identity"
	"github.com/medconsole/admin-backend/internal/logger"
	"github.com/medconsole/admin-backend/internal/password"
	"github.com/medconsole/admin-backend/internal/repository"
	"github.com/medconsole/admin-backend/internal/router"
	"github.com/medconsole/admin-backend/internal/service"
	"github.com/medconsole/admin-backend/internal/session"
	"github.com/medconsole/admin-backend/internal/validator"
	"github.com/medconsole/admin-backend/internal/worker"
)

// sessionCacheSize bounds the in-process session store used without Redis.
const sessionCacheSize = 1024

// stores is the set of gateways the services read from. Fallbacks are nil
// when demo data is primary or the fallback is disabled.
type stores struct {
	admins, adminsFallback               gateway.AdminStore
	profiles, profilesFallback           gateway.ProfileStore
	consultations, consultationsFallback gateway.ConsultationStore
	directory, directoryFallback         gateway.IdentityDirectory
	activity, activityFallback           gateway.ActivityStore
}

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		bootLog := logger.Setup("info", "json")
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	mode := "database"
	if cfg.DemoMode() {
		mode = "demo"
	}
	log.Info().
		Str("port", cfg.ServerPort).
		Str("gin_mode", cfg.GinMode).
		Str("data_mode", mode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting admin console backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hasher := password.NewHasher(cfg.BcryptCost)
	ds := demo.New(hasher, nil)
	checks := map[string]handler.Check{}

	// ─── Data Gateways ─────────────────────────────────────────────────
	st := stores{
		admins:        ds.Admins,
		profiles:      ds.Profiles,
		consultations: ds.Consultations,
		directory:     ds.Directory,
		activity:      ds.Activity,
	}

	if !cfg.DemoMode() {
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		checks["postgres"] = pool.Ping

		st.admins = repository.NewAdminRepository(pool)
		st.profiles = repository.NewProfileRepository(pool)
		st.consultations = repository.NewConsultationRepository(pool)
		st.activity = repository.NewActivityRepository(pool)

		if cfg.DemoFallback {
			st.adminsFallback = ds.Admins
			st.profilesFallback = ds.Profiles
			st.consultationsFallback = ds.Consultations
			st.activityFallback = ds.Activity
		}
	}

	// In demo mode without an identity service the demo directory stays primary.
	if cfg.IdentityURL != "" {
		st.directory = identity.New(cfg.IdentityURL, cfg.IdentityServiceKey, &http.Client{Timeout: cfg.GatewayTimeout()}, log)
		if cfg.DemoFallback {
			st.directoryFallback = ds.Directory
		}
	}

	// ─── Sessions & Activity ───────────────────────────────────────────
	var (
		sessions session.Store
		recorder activity.Recorder
	)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

		sessions = session.NewRedisStore(rdb, cfg.SessionTTL())
		recorder = activity.NewQueueRecorder(rdb, log)

		activityWorker := worker.NewActivityWorker(st.activity, rdb, log)
		go func() {
			defer close(workerDone)
			activityWorker.Start(workerCtx)
		}()
	} else {
		log.Warn().Msg("REDIS_URL not set, sessions are kept in process memory")
		sessions = session.NewMemoryStore(sessionCacheSize, cfg.SessionTTL())
		recorder = activity.NewStoreRecorder(st.activity, log)
		close(workerDone)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	timeout := cfg.GatewayTimeout()
	authService := service.NewAuthService(cfg, st.admins, st.adminsFallback, sessions, hasher, recorder, log)
	adminService := service.NewAdminService(authService, timeout)
	userService := service.NewUserService(st.directory, st.directoryFallback, st.profiles, st.profilesFallback, recorder, timeout, log)
	consultationService := service.NewConsultationService(st.consultations, st.consultationsFallback, recorder, timeout, log)
	activityService := service.NewActivityService(st.activity, st.activityFallback, timeout, log)
	dashboardService := service.NewDashboardService(userService, adminService, consultationService, activityService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Admin:        handler.NewAdminHandler(adminService),
		User:         handler.NewUserHandler(userService),
		Consultation: handler.NewConsultationHandler(consultationService),
		Dashboard:    handler.NewDashboardHandler(dashboardService, activityService),
		System:       handler.NewSystemHandler(mode, checks, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the activity worker and wait for the queue to drain.
	workerCancel()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Activity queue not drained before shutdown deadline")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
