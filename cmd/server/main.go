package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sussybocca/FolderExplorer/internal/config"
	"github.com/sussybocca/FolderExplorer/internal/handlers"
	"github.com/sussybocca/FolderExplorer/internal/middleware"
	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/repository"
	"github.com/sussybocca/FolderExplorer/internal/services"
	"github.com/sussybocca/FolderExplorer/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := pkg.NewLogger(cfg.Log.Level)

	mongodb, err := repository.Connect(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logger.Fatal("MongoDB connection failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer mongodb.Disconnect()

	repos := repository.NewRepositories(mongodb)

	storage, err := services.NewS3Provider(&services.StorageConfig{
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Object store setup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	var cache middleware.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err := middleware.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Redis connection failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer redisCache.Close()
		cache = redisCache
	} else {
		logger.Warn("Redis not configured, using in-process cache")
		cache = middleware.NewMemoryCache()
	}

	sessions := pkg.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Issuer)

	authService := services.NewAuthService(repos.User, repos.PassPin, sessions, logger)
	accessService := services.NewAccessService(repos.User, repos.Folder, repos.Collaboration, logger)
	folderService := services.NewFolderService(repos.Folder, repos.Collaboration, accessService, logger)
	contentService := services.NewContentService(repos.User, repos.Folder, storage, accessService, logger)

	router := handlers.NewRouter(
		handlers.NewAuthHandler(authService, cfg.Server.CookieSecure),
		handlers.NewFolderHandler(folderService),
		handlers.NewFileHandler(contentService),
		handlers.NewCollaborationHandler(accessService),
		handlers.NewPublicHandler(contentService, cache, logger),
		middleware.NewAuthMiddleware(sessions, logger),
		middleware.NewLoggingMiddleware(logger, "/health"),
		&middleware.CORSConfig{
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           86400,
		},
		logger,
	)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	workerLogger := pkg.NewLoggerWithPrefix(cfg.Log.Level, "cleanup")
	go worker.NewCleanupWorker(repos.PassPin, worker.DefaultCleanupInterval, workerLogger).Start(workerCtx)

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	router.Setup(engine)

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on %s", cfg.Server.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
	}
}
