package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-detector/internal/artifact"
	"ai-detector/internal/metrics"
	"ai-detector/internal/models"
	"ai-detector/internal/scorer"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// MaxBatchSize caps the number of texts scored in one batch call
const MaxBatchSize = 100

var (
	// ErrNoModel is returned while no artifact pair is being served
	ErrNoModel = errors.New("no model loaded")
	// ErrRunsUnavailable is returned when the detector has no run history
	ErrRunsUnavailable = errors.New("training run history is not configured")
	// ErrReloadUnavailable is returned when the detector has no artifact store
	ErrReloadUnavailable = errors.New("artifact store is not configured")
)

// RunStore reads the training run history
type RunStore interface {
	GetRun(ctx context.Context, id string) (*models.TrainingRun, error)
	ListRuns(ctx context.Context, limit int) ([]*models.TrainingRun, error)
}

// Detector handles detection business logic
type Detector struct {
	holder *artifact.Holder
	policy scorer.Policy
	store  artifact.Store
	runs   RunStore
	logger *zap.Logger
}

// NewDetector creates a new detector service. store and runs may be nil, which
// disables hot reload and the run history respectively.
func NewDetector(
	holder *artifact.Holder,
	policy scorer.Policy,
	store artifact.Store,
	runs RunStore,
	logger *zap.Logger,
) (*Detector, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if pair := holder.Load(); pair != nil {
		metrics.ModelLoaded.WithLabelValues(pair.RunID).Set(1)
	}
	return &Detector{
		holder: holder,
		policy: policy,
		store:  store,
		runs:   runs,
		logger: logger,
	}, nil
}

func (d *Detector) currentScorer() (*scorer.Scorer, error) {
	pair := d.holder.Load()
	if pair == nil {
		return nil, &models.PredictionError{Err: ErrNoModel}
	}
	return scorer.New(pair, d.policy)
}

// Detect scores a single text
func (d *Detector) Detect(ctx context.Context, text string) (*models.PredictionResult, error) {
	s, err := d.currentScorer()
	if err != nil {
		d.logger.Error("Scorer unavailable", zap.Error(err))
		return nil, err
	}
	return d.score(s, text)
}

// DetectBatch scores every text against the same artifact pair. A failing text
// does not fail the batch; its error is reported in its own item.
func (d *Detector) DetectBatch(ctx context.Context, texts []string) ([]models.BatchItemResult, error) {
	if len(texts) == 0 || len(texts) > MaxBatchSize {
		return nil, &models.ValidationError{Reason: fmt.Sprintf("Batch must contain between 1 and %d texts", MaxBatchSize)}
	}
	s, err := d.currentScorer()
	if err != nil {
		d.logger.Error("Scorer unavailable", zap.Error(err))
		return nil, err
	}

	items := lo.Map(texts, func(text string, i int) models.BatchItemResult {
		item := models.BatchItemResult{Index: i}
		result, err := d.score(s, text)
		if err != nil {
			item.Error = PublicMessage(err)
			return item
		}
		item.Result = result
		return item
	})

	d.logger.Info("Batch scored",
		zap.Int("count", len(texts)),
		zap.Int("failed", lo.CountBy(items, func(it models.BatchItemResult) bool { return it.Error != "" })))
	return items, nil
}

func (d *Detector) score(s *scorer.Scorer, text string) (*models.PredictionResult, error) {
	start := time.Now()
	result, err := s.Score(text)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			metrics.Rejections.WithLabelValues("validation").Inc()
		} else {
			metrics.Rejections.WithLabelValues("prediction").Inc()
			d.logger.Error("Prediction failed",
				zap.Int("text_length", len(text)),
				zap.Error(err))
		}
		return nil, err
	}

	metrics.ScoringLatency.Observe(time.Since(start).Seconds())
	metrics.Predictions.WithLabelValues(scorer.RiskLevel(result.AIScore)).Inc()
	metrics.AIScore.Observe(result.AIScore)
	return result, nil
}

// ModelInfo describes the artifact pair currently served
func (d *Detector) ModelInfo() (models.ModelInfo, error) {
	pair := d.holder.Load()
	if pair == nil {
		return models.ModelInfo{}, ErrNoModel
	}
	return pair.Info(), nil
}

// Reload loads the newest pair from the store, validates it and swaps it in.
// On any failure the pair currently served stays in place.
func (d *Detector) Reload(ctx context.Context) (models.ModelInfo, error) {
	if d.store == nil {
		return models.ModelInfo{}, ErrReloadUnavailable
	}

	pair, err := d.store.Load(ctx)
	if err != nil {
		metrics.ModelReloads.WithLabelValues("failed").Inc()
		d.logger.Error("Failed to reload artifacts", zap.Error(err))
		return models.ModelInfo{}, fmt.Errorf("failed to reload artifacts: %w", err)
	}

	previous := d.holder.Swap(pair)
	if previous != nil {
		metrics.ModelLoaded.WithLabelValues(previous.RunID).Set(0)
	}
	metrics.ModelLoaded.WithLabelValues(pair.RunID).Set(1)
	metrics.ModelReloads.WithLabelValues("success").Inc()

	info := pair.Info()
	d.logger.Info("Artifacts reloaded",
		zap.String("run_id", info.RunID),
		zap.Int("vocabulary_size", info.VocabularySize))
	return info, nil
}

// ListRuns returns the most recent training runs
func (d *Detector) ListRuns(ctx context.Context, limit int) ([]*models.TrainingRun, error) {
	if d.runs == nil {
		return nil, ErrRunsUnavailable
	}
	return d.runs.ListRuns(ctx, limit)
}

// GetRun returns one training run
func (d *Detector) GetRun(ctx context.Context, id string) (*models.TrainingRun, error) {
	if d.runs == nil {
		return nil, ErrRunsUnavailable
	}
	return d.runs.GetRun(ctx, id)
}

// PublicMessage returns the text shown to API callers for err
func PublicMessage(err error) string {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Reason
	}
	return "Prediction failed"
}
