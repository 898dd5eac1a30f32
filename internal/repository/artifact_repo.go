package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ai-detector/internal/artifact"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrNoArtifacts is returned by Load when nothing has been saved yet
var ErrNoArtifacts = errors.New("no artifacts stored")

// ArtifactRepository stores artifact pairs in sqlite, one row per training run
type ArtifactRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type artifactRow struct {
	ID         int64     `db:"id"`
	RunID      string    `db:"run_id"`
	Vectorizer []byte    `db:"vectorizer"`
	Model      []byte    `db:"model"`
	TrainedAt  time.Time `db:"trained_at"`
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *sqlx.DB, logger *zap.Logger) *ArtifactRepository {
	return &ArtifactRepository{
		db:     db,
		logger: logger,
	}
}

// Save writes both blobs of the pair in a single transaction
func (r *ArtifactRepository) Save(ctx context.Context, pair *artifact.Pair) error {
	vectorizerBlob, modelBlob, err := pair.Encode()
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO artifacts (run_id, vectorizer, model, trained_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		pair.RunID,
		vectorizerBlob,
		modelBlob,
		pair.TrainedAt.UTC(),
		time.Now().UTC(),
	); err != nil {
		r.logger.Error("Failed to save artifacts", zap.String("run_id", pair.RunID), zap.Error(err))
		return fmt.Errorf("failed to save artifacts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit artifacts: %w", err)
	}

	r.logger.Info("Artifacts saved",
		zap.String("run_id", pair.RunID),
		zap.Int("vectorizer_bytes", len(vectorizerBlob)),
		zap.Int("model_bytes", len(modelBlob)))
	return nil
}

// Load returns the most recently saved pair
func (r *ArtifactRepository) Load(ctx context.Context) (*artifact.Pair, error) {
	var row artifactRow
	query := `
		SELECT id, run_id, vectorizer, model, trained_at
		FROM artifacts
		ORDER BY id DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoArtifacts
		}
		return nil, fmt.Errorf("failed to load artifacts: %w", err)
	}

	return artifact.Decode(row.Vectorizer, row.Model, row.RunID, row.TrainedAt)
}
