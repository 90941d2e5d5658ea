package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/repositories/memory"
	api "github.com/Dosada05/swiss-tournament/routes"
	"github.com/Dosada05/swiss-tournament/services"
	"github.com/Dosada05/swiss-tournament/storage"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

// app holds the wired dependency graph behind the HTTP handler.
type app struct {
	handler   http.Handler
	scheduler *services.ExportScheduler
	closers   []func() error
}

func (a *app) close(logger *slog.Logger) {
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			logger.Error("failed to stop export scheduler", slog.Any("error", err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Error("failed to release resource", slog.Any("error", err))
		}
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories.Store, *sql.DB, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil, nil
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(ctx, dbConn); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info("database connection established")
	return repositories.NewPostgresStore(dbConn), dbConn, nil
}

// buildApp wires the store, services and handlers. Background workers stop
// when ctx is done.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	store, dbConn, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	var pinger handlers.Pinger
	if dbConn != nil {
		pinger = dbConn
		a.closers = append(a.closers, dbConn.Close)
	}

	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		}, logger)
		if err != nil {
			a.close(logger)
			return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)

	standingsService := services.NewStandingsService(store, logger)
	playerService := services.NewPlayerService(store, logger)
	tournamentService := services.NewTournamentService(store, logger)
	matchService := services.NewMatchService(store, standingsService, wsHub, m, logger)
	pairingService := services.NewPairingService(standingsService, nil, m, logger)
	exportService := services.NewExportService(store, standingsService, uploader, m, logger)
	authService := services.NewAuthService(cfg.JWTSecretKey, cfg.AdminPasswordHash)

	if cfg.ExportInterval > 0 {
		if uploader == nil {
			logger.Warn("EXPORT_INTERVAL is set but R2 is not configured, scheduled exports disabled")
		} else {
			a.scheduler, err = services.StartExportScheduler(ctx, exportService, cfg.ExportInterval, logger)
			if err != nil {
				a.close(logger)
				return nil, fmt.Errorf("failed to start export scheduler: %w", err)
			}
		}
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Player:     handlers.NewPlayerHandler(playerService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Match:      handlers.NewMatchHandler(matchService),
		Standings:  handlers.NewStandingsHandler(standingsService, pairingService, exportService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigin, logger),
		Health:     handlers.NewHealthHandler(pinger),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigin,
		Gatherer:       registry,
		Logger:         logger,
	})
	a.handler = router

	return a, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("store", cfg.StoreDriver))

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close(logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      a.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
	}
	return nil
}
