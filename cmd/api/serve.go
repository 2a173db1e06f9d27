package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/baharkarakas/classifieds-backend/internal/api"
	"github.com/baharkarakas/classifieds-backend/internal/auth"
	"github.com/baharkarakas/classifieds-backend/internal/config"
	"github.com/baharkarakas/classifieds-backend/internal/db"
	"github.com/baharkarakas/classifieds-backend/internal/logger"
	"github.com/baharkarakas/classifieds-backend/internal/metrics"
	"github.com/baharkarakas/classifieds-backend/internal/middleware"
	"github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/baharkarakas/classifieds-backend/internal/repository/memory"
	"github.com/baharkarakas/classifieds-backend/internal/repository/postgres"
	"github.com/baharkarakas/classifieds-backend/internal/services"
	"github.com/baharkarakas/classifieds-backend/internal/storage"
)

func newServeCommand() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configFlags[configFlag].GetString(), migrate)
		},
	}
	cobraflags.RegisterMap(cmd, configFlags)
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

// loadConfig reads the config and installs the default logger.
func loadConfig(file string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(file)
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)
	return cfg, log, nil
}

func newImageStore(cfg config.Config) (storage.ImageStore, error) {
	if cfg.ImageStore == "s3" {
		return storage.NewS3(cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint, cfg.S3PublicURL)
	}
	return storage.NewDisk(cfg.MediaRoot, cfg.MediaURL), nil
}

func serve(parent context.Context, configFile string, migrate bool) error {
	cfg, log, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos repository.Repositories
	if cfg.Store == "memory" {
		log.Warn("using in-memory store; data is lost on exit")
		repos = memory.NewRepositories()
	} else {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer pool.Close()
		if migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
		}
		repos = postgres.NewRepositories(pool)
	}

	images, err := newImageStore(cfg)
	if err != nil {
		return err
	}
	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:  cfg,
		Log:  log,
		Auth: middleware.NewAuthenticator(tm, repos.Users, cfg.Env),
		Svc: api.Services{
			Ads:        services.NewAdService(repos.Ads, images, cfg.AdPriceToInclusive, log),
			Categories: services.NewCategoryService(repos.Categories, log),
			Selections: services.NewSelectionService(repos.Selections, log),
			Users:      services.NewUserService(repos.Users, log),
			Locations:  services.NewLocationService(repos.Locations),
			Auth:       services.NewAuthService(repos.Users, tm, log),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "store", cfg.Store, "image_store", cfg.ImageStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
