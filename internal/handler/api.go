package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ai-detector/internal/middleware"
	"ai-detector/internal/models"
	"ai-detector/internal/scorer"
	"ai-detector/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	detector *service.Detector
	logger   *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(detector *service.Detector, logger *zap.Logger) *Handler {
	return &Handler{
		detector: detector,
		logger:   logger,
	}
}

// RegisterRoutes registers all API routes. admin guards the model management endpoints.
func (h *Handler) RegisterRoutes(r *gin.Engine, admin ...gin.HandlerFunc) {
	// Path used by the browser extension
	r.POST("/api/detect-ai", h.Detect)

	api := r.Group("/api/v1")
	{
		// Detection endpoints
		api.POST("/detect", h.Detect)
		api.POST("/detect/batch", h.DetectBatch)

		// Model and training history
		api.GET("/model", h.GetModel)
		api.GET("/runs", h.ListRuns)
		api.GET("/runs/:id", h.GetRun)

		adminGroup := api.Group("/admin", admin...)
		adminGroup.POST("/model/reload", h.ReloadModel)
	}

	// Health check and metrics
	r.GET("/health", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Detect scores a single text
func (h *Handler) Detect(c *gin.Context) {
	var req models.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": scorer.ReasonTooShort})
		return
	}

	result, err := h.detector.Detect(c.Request.Context(), req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DetectBatch scores up to 100 texts in one call
func (h *Handler) DetectBatch(c *gin.Context) {
	var req models.BatchDetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("texts must contain between 1 and %d items", service.MaxBatchSize),
		})
		return
	}

	items, err := h.detector.DetectBatch(c.Request.Context(), req.Texts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": items,
		"total":   len(items),
	})
}

// GetModel describes the artifact pair currently served
func (h *Handler) GetModel(c *gin.Context) {
	info, err := h.detector.ModelInfo()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no model loaded"})
		return
	}

	c.JSON(http.StatusOK, info)
}

// ListRuns returns the training run history
func (h *Handler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit (must be 1-500)"})
			return
		}
		limit = n
	}

	runs, err := h.detector.ListRuns(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrRunsUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "training history unavailable"})
			return
		}
		h.logger.Error("Failed to list training runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get training runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": len(runs),
	})
}

// GetRun returns one training run
func (h *Handler) GetRun(c *gin.Context) {
	run, err := h.detector.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRunNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		case errors.Is(err, service.ErrRunsUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "training history unavailable"})
		default:
			h.logger.Error("Failed to get training run", zap.String("run_id", c.Param("id")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get training run"})
		}
		return
	}

	c.JSON(http.StatusOK, run)
}

// ReloadModel swaps in the newest artifact pair from the store
func (h *Handler) ReloadModel(c *gin.Context) {
	info, err := h.detector.Reload(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrReloadUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reload unavailable"})
			return
		}
		h.logger.Error("Model reload failed",
			zap.String("by", c.GetString(middleware.ContextSubject)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}

	h.logger.Info("Model reloaded via API", zap.String("by", c.GetString(middleware.ContextSubject)))
	c.JSON(http.StatusOK, gin.H{
		"status": "reloaded",
		"model":  info,
	})
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(c *gin.Context) {
	_, err := h.detector.ModelInfo()
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"service":      "ai-detector",
		"version":      "1.0.0",
		"model_loaded": err == nil,
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Reason})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": service.PublicMessage(err)})
}
