package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ai-detector/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const defaultRunListLimit = 50

// RunRepository keeps the history of training runs
type RunRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type runRow struct {
	models.TrainingRun
	MetricsJSON sql.NullString `db:"metrics_json"`
}

func (row *runRow) toModel() (*models.TrainingRun, error) {
	run := row.TrainingRun
	if row.MetricsJSON.Valid && row.MetricsJSON.String != "" {
		var metrics models.EvaluationMetrics
		if err := json.Unmarshal([]byte(row.MetricsJSON.String), &metrics); err != nil {
			return nil, fmt.Errorf("failed to decode metrics of run %s: %w", run.ID, err)
		}
		run.Metrics = &metrics
	}
	return &run, nil
}

// NewRunRepository creates a new training run repository
func NewRunRepository(db *sqlx.DB, logger *zap.Logger) *RunRepository {
	return &RunRepository{
		db:     db,
		logger: logger,
	}
}

func encodeMetrics(metrics *models.EvaluationMetrics) (sql.NullString, error) {
	if metrics == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(metrics)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode metrics: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// CreateRun inserts a new run row
func (r *RunRepository) CreateRun(ctx context.Context, run *models.TrainingRun) error {
	metrics, err := encodeMetrics(run.Metrics)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO training_runs (id, status, corpus_size, train_size, test_size, accuracy,
			metrics_json, started_at, completed_at, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.Status,
		run.CorpusSize,
		run.TrainSize,
		run.TestSize,
		run.Accuracy,
		metrics,
		run.StartedAt.UTC(),
		run.CompletedAt,
		run.ErrorMessage,
	)
	if err != nil {
		r.logger.Error("Failed to create training run", zap.String("run_id", run.ID), zap.Error(err))
		return fmt.Errorf("failed to create training run: %w", err)
	}
	return nil
}

// UpdateRun stores the final state of a run
func (r *RunRepository) UpdateRun(ctx context.Context, run *models.TrainingRun) error {
	metrics, err := encodeMetrics(run.Metrics)
	if err != nil {
		return err
	}

	query := `
		UPDATE training_runs
		SET status = ?, corpus_size = ?, train_size = ?, test_size = ?, accuracy = ?,
			metrics_json = ?, completed_at = ?, error_message = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		run.Status,
		run.CorpusSize,
		run.TrainSize,
		run.TestSize,
		run.Accuracy,
		metrics,
		run.CompletedAt,
		run.ErrorMessage,
		run.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update training run", zap.String("run_id", run.ID), zap.Error(err))
		return fmt.Errorf("failed to update training run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrRunNotFound
	}
	return nil
}

// GetRun returns a single run by id
func (r *RunRepository) GetRun(ctx context.Context, id string) (*models.TrainingRun, error) {
	var row runRow
	query := `
		SELECT id, status, corpus_size, train_size, test_size, accuracy,
			metrics_json, started_at, completed_at, error_message
		FROM training_runs
		WHERE id = ?
	`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get training run: %w", err)
	}
	return row.toModel()
}

// ListRuns returns the most recent runs first
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*models.TrainingRun, error) {
	if limit <= 0 {
		limit = defaultRunListLimit
	}

	var rows []runRow
	query := `
		SELECT id, status, corpus_size, train_size, test_size, accuracy,
			metrics_json, started_at, completed_at, error_message
		FROM training_runs
		ORDER BY started_at DESC
		LIMIT ?
	`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}

	runs := make([]*models.TrainingRun, 0, len(rows))
	for i := range rows {
		run, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}
