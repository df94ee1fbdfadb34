package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/config"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/database"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/handler"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/repository"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/router"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/service"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/storage"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	uploadRepo := repository.NewUploadRepository(pool)
	slog.Info("database ready")

	cleanupFuncs := []func(){db.Close}

	// Ephemeral sessions always live in process memory; the durable
	// "remember me" tier goes to Redis when an address is configured.
	ephemeral := session.NewMemoryStore()
	var durable session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		durable = session.NewRedisStore(redisClient, "session:")
		cleanupFuncs = append(cleanupFuncs, func() { _ = redisClient.Close() })
		slog.Info("redis ready", "addr", cfg.RedisAddr)
	} else {
		slog.Warn("REDIS_ADDR not set, persistent sessions are in-memory only")
	}

	var codec session.Codec = session.JSONCodec{}
	if cfg.SessionSigningSecret != "" {
		codec = session.NewSignedCodec(cfg.SessionSigningSecret, cfg.PersistentSessionTTL)
		slog.Info("session cookies are signed")
	}
	sessions := session.NewManager(ephemeral, durable, codec, cfg.SessionTTL, cfg.PersistentSessionTTL, cfg.IdleTimeout)

	var objectStore storage.ObjectStorage
	if cfg.S3Bucket != "" {
		objectStore, err = storage.NewS3Storage(context.Background(), storage.S3Config{
			Endpoint:       cfg.S3Endpoint,
			Region:         cfg.S3Region,
			Bucket:         cfg.S3Bucket,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			ForcePathStyle: cfg.S3ForcePathStyle,
			PublicBaseURL:  cfg.S3PublicBaseURL,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		slog.Info("object storage ready", "bucket", cfg.S3Bucket)
	} else {
		localRoot := filepath.Join(cfg.PagesDir, "static", "uploads")
		objectStore, err = storage.NewLocalStorage(localRoot)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		slog.Warn("S3_BUCKET not set, storing uploads locally", "root", localRoot)
	}

	authService := service.NewAuthService(userRepo, cfg.LoginTimeout)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, cartRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	uploadService := service.NewUploadService(objectStore, uploadRepo, cfg.AllowedMIMETypes, cfg.ThumbnailWidth)

	if err := authService.SeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	cookies := sessions.Cookies()
	pageHandler := handler.NewPageHandler(cfg.PagesDir)
	authHandler := handler.NewAuthHandler(authService, sessions)
	productHandler := handler.NewProductHandler(productService, cookies)
	cartHandler := handler.NewCartHandler(cartService, cookies)
	orderHandler := handler.NewOrderHandler(orderService, cookies)
	reviewHandler := handler.NewReviewHandler(reviewService, cookies)
	uploadHandler := handler.NewUploadHandler(uploadService, cookies, cfg.MaxUploadSize)

	appRouter := router.New(cfg, db, cookies,
		pageHandler, authHandler, productHandler, cartHandler,
		orderHandler, reviewHandler, uploadHandler)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		db:           db,
		cleanupFuncs: cleanupFuncs,
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
