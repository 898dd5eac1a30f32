// Package trainer fits the vectorizer and classifier on a labeled corpus,
// evaluates them on a held-out split and persists the resulting artifact pair.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-detector/internal/artifact"
	"ai-detector/internal/classifier"
	"ai-detector/internal/corpus"
	"ai-detector/internal/models"
	"ai-detector/internal/textfeat"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Config controls a training run
type Config struct {
	TestSize   float64          `yaml:"test_size" split_words:"true" validate:"gt=0,lt=1"`
	Seed       int64            `yaml:"seed"`
	Smoothing  float64          `yaml:"smoothing" validate:"gt=0"`
	Vectorizer textfeat.Options `yaml:"vectorizer"`
}

// DefaultConfig returns an 80/20 split seeded with 42 and Laplace smoothing
func DefaultConfig() Config {
	return Config{
		TestSize:   0.2,
		Seed:       42,
		Smoothing:  classifier.DefaultSmoothing,
		Vectorizer: textfeat.DefaultOptions(),
	}
}

// RunRecorder keeps the history of training runs
type RunRecorder interface {
	CreateRun(ctx context.Context, run *models.TrainingRun) error
	UpdateRun(ctx context.Context, run *models.TrainingRun) error
}

// Result is the outcome of a successful run
type Result struct {
	Pair    *artifact.Pair
	Metrics models.EvaluationMetrics
	Run     *models.TrainingRun
}

// Trainer runs the training pipeline
type Trainer struct {
	cfg      Config
	store    artifact.Store
	recorder RunRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a trainer. recorder may be nil.
func New(cfg Config, store artifact.Store, recorder RunRecorder, logger *zap.Logger) *Trainer {
	return &Trainer{
		cfg:      cfg,
		store:    store,
		recorder: recorder,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run loads the corpus, trains, evaluates and persists the artifact pair.
// Nothing is persisted unless every step succeeded.
func (t *Trainer) Run(ctx context.Context, source corpus.Source) (*Result, error) {
	run := &models.TrainingRun{
		ID:        uuid.New().String(),
		Status:    models.RunStatusRunning,
		StartedAt: t.now(),
	}
	t.logger.Info("Training run started", zap.String("run_id", run.ID))
	if t.recorder != nil {
		if err := t.recorder.CreateRun(ctx, run); err != nil {
			t.logger.Warn("Failed to record training run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	result, err := t.train(ctx, source, run)
	run.CompletedAt = lo.ToPtr(t.now())
	if err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = err.Error()
		t.logger.Error("Training run failed", zap.String("run_id", run.ID), zap.Error(err))
	} else {
		run.Status = models.RunStatusCompleted
		t.logger.Info("Training run completed",
			zap.String("run_id", run.ID),
			zap.Int("vocabulary_size", result.Pair.Vectorizer.VocabularySize()),
			zap.Float64("accuracy", run.Accuracy))
	}

	if t.recorder != nil {
		// the caller's context may already be cancelled; the final state is still recorded
		if uerr := t.recorder.UpdateRun(context.WithoutCancel(ctx), run); uerr != nil {
			t.logger.Warn("Failed to update training run", zap.String("run_id", run.ID), zap.Error(uerr))
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (t *Trainer) train(ctx context.Context, source corpus.Source, run *models.TrainingRun) (*Result, error) {
	docs, err := source.Load(ctx)
	if err != nil {
		var corpusErr *models.CorpusError
		if errors.As(err, &corpusErr) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &models.CorpusError{Msg: "failed to load corpus", Err: err}
	}
	if len(docs) == 0 {
		return nil, &models.CorpusError{Msg: "corpus is empty"}
	}
	run.CorpusSize = len(docs)

	trainDocs, testDocs, err := Split(docs, t.cfg.TestSize, t.cfg.Seed)
	if err != nil {
		return nil, err
	}
	run.TrainSize = len(trainDocs)
	run.TestSize = len(testDocs)
	t.logger.Info("Corpus split",
		zap.Int("corpus_size", run.CorpusSize),
		zap.Int("train_size", run.TrainSize),
		zap.Int("test_size", run.TestSize))

	vectorizer, err := textfeat.Fit(texts(trainDocs), t.cfg.Vectorizer)
	if err != nil {
		return nil, err
	}
	model, err := classifier.Fit(vectorizer.TransformAll(texts(trainDocs)), labels(trainDocs),
		vectorizer.VocabularySize(), t.cfg.Smoothing)
	if err != nil {
		return nil, err
	}
	model.VocabularyDigest = vectorizer.Digest()

	predictions := make([]models.Label, len(testDocs))
	for i, vec := range vectorizer.TransformAll(texts(testDocs)) {
		if predictions[i], err = model.Predict(vec); err != nil {
			return nil, fmt.Errorf("failed to predict held-out document %d: %w", i, err)
		}
	}
	metrics := Evaluate(labels(testDocs), predictions)
	run.Accuracy = metrics.Accuracy
	run.Metrics = &metrics

	pair, err := artifact.NewPair(vectorizer, model, run.ID, t.now())
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.store != nil {
		if err := t.store.Save(ctx, pair); err != nil {
			return nil, fmt.Errorf("failed to persist artifacts: %w", err)
		}
	}

	return &Result{Pair: pair, Metrics: metrics, Run: run}, nil
}

func texts(docs []models.Document) []string {
	return lo.Map(docs, func(d models.Document, _ int) string { return d.Text })
}

func labels(docs []models.Document) []models.Label {
	return lo.Map(docs, func(d models.Document, _ int) models.Label { return d.Label })
}
