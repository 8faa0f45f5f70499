// @title                       Alayatales Temple API
// @version                     1.0
// @description                 Temple directory with user accounts and admin-managed listings.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
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

	"github.com/rs/zerolog"

	"github.com/alayatales/temple-api/internal/api"
	"github.com/alayatales/temple-api/internal/core/ports"
	"github.com/alayatales/temple-api/internal/core/service"
	"github.com/alayatales/temple-api/internal/infrastructure/config"
	mongodb "github.com/alayatales/temple-api/internal/infrastructure/db/mongo"
	redisdb "github.com/alayatales/temple-api/internal/infrastructure/db/redis"
	"github.com/alayatales/temple-api/internal/infrastructure/http/handlers"
	"github.com/alayatales/temple-api/internal/infrastructure/queue"
	"github.com/alayatales/temple-api/internal/infrastructure/storage"
	"github.com/alayatales/temple-api/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "temple-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "temple-api",
	})

	// --- Datastores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "temple-api",
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	userRepo := mongodb.NewUserRepository(db)
	templeRepo := mongodb.NewTempleRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := templeRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("temple indexes: %w", err)
	}

	// --- Image storage ---
	images, uploads, err := newImageStore(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	janitor := queue.NewJanitor(cfg.Janitor.Workers, cfg.Janitor.QueueSize, images, logger.Component("janitor"))
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	janitor.Start(janitorCtx)
	defer func() {
		stopJanitor()
		janitor.Wait()
	}()

	// --- Services ---
	authService := service.NewAuthService(userRepo, service.AuthConfig{
		JWTSecret:        cfg.Auth.JWTSecret,
		TokenTTL:         cfg.Auth.TokenTTL,
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
	}, logger.Component("auth"))
	templeService := service.NewTempleService(service.TempleDeps{
		Repo:        templeRepo,
		Images:      images,
		Janitor:     janitor,
		Idempotency: redisdb.NewIdempotencyStore(rdb),
		MaxImages:   cfg.HTTP.MaxUploadFiles,
	}, logger.Component("temples"))
	statsService := service.NewStatsService(templeRepo, userRepo)

	if cfg.Auth.AllowAdminSignup {
		log.Warn().Msg("ALLOW_ADMIN_SIGNUP is on: any caller can register as admin")
	}

	e := api.NewRouter(api.Deps{
		Auth:    authService,
		Temples: templeService,
		Stats:   statsService,
		Uploads: uploads,
		Checks: []handlers.Check{
			handlers.MongoCheck(db),
			handlers.RedisCheck(rdb),
			{Name: "images", Ping: images.Ping},
		},
		Logger:         logger.Component("http"),
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		MaxUploadFiles: cfg.HTTP.MaxUploadFiles,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage.Driver).Msg("temple api listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	log.Info().Msg("server stopped")
	return nil
}

// newImageStore builds the store selected by STORAGE_DRIVER and describes how
// the router should serve /uploads for it.
func newImageStore(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (ports.ImageStore, api.Uploads, error) {
	switch cfg.Driver {
	case config.StorageMinio:
		store, err := storage.NewMinioStore(storage.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, api.Uploads{}, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, api.Uploads{}, err
		}
		log.Info().Str("bucket", cfg.Minio.Bucket).Msg("storing images in minio")
		return store, api.Uploads{Source: store}, nil
	default:
		store, err := storage.NewDiskStore(cfg.UploadDir)
		if err != nil {
			return nil, api.Uploads{}, err
		}
		log.Info().Str("dir", cfg.UploadDir).Msg("storing images on disk")
		return store, api.Uploads{Dir: store.Dir()}, nil
	}
}
