package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-detector/internal/artifact"
	"ai-detector/internal/bootstrap"
	"ai-detector/internal/config"
	"ai-detector/internal/handler"
	"ai-detector/internal/middleware"
	"ai-detector/internal/repository"
	"ai-detector/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yml", "path to the YAML configuration file")
	flag.Parse()

	// Bootstrap logger until the configured one is available
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if logger, err = cfg.NewLogger(); err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting AI Detector...")

	db, err := repository.OpenDetectorDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// The server never starts without a validated artifact pair
	store := bootstrap.ArtifactStore(cfg, db, logger)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	pair, err := store.Load(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Fatal("Failed to load model artifacts", zap.String("store", cfg.Artifacts.Store), zap.Error(err))
	}
	info := pair.Info()
	logger.Info("Model artifacts loaded",
		zap.String("run_id", info.RunID),
		zap.Int("vocabulary_size", info.VocabularySize))

	detector, err := service.NewDetector(
		artifact.NewHolder(pair),
		cfg.Scoring,
		store,
		repository.NewRunRepository(db, logger),
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize detector", zap.Error(err))
	}

	apiHandler := handler.NewHandler(detector, logger)

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	router.Use(middleware.RequestMetrics())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	var admin []gin.HandlerFunc
	if cfg.Auth.JWTSecret != "" {
		admin = []gin.HandlerFunc{
			middleware.AuthMiddleware([]byte(cfg.Auth.JWTSecret), logger),
			middleware.RequireRole(middleware.RoleAdmin),
		}
	} else {
		logger.Warn("JWT secret not configured, admin endpoints are disabled")
		admin = []gin.HandlerFunc{func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin API disabled"})
		}}
	}
	apiHandler.RegisterRoutes(router, admin...)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("AI Detector is running",
		zap.String("port", cfg.Server.Port),
		zap.Int("min_length", cfg.Scoring.MinLength))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
