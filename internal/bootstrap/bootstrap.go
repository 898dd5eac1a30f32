// Package bootstrap builds the collaborators shared by the server and the trainer
// from the loaded configuration.
package bootstrap

import (
	"ai-detector/internal/artifact"
	"ai-detector/internal/config"
	"ai-detector/internal/corpus"
	"ai-detector/internal/repository"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ArtifactStore returns the configured artifact store. db is the detector database.
func ArtifactStore(cfg *config.Config, db *sqlx.DB, logger *zap.Logger) artifact.Store {
	if cfg.Artifacts.Store == config.StoreSQLite {
		return repository.NewArtifactRepository(db, logger)
	}
	return artifact.NewFileStore(cfg.Artifacts.Dir, cfg.Artifacts.VectorizerFile, cfg.Artifacts.ModelFile, logger)
}

// CorpusSource returns the configured corpus source. The returned close function
// releases the corpus database connection, if any.
func CorpusSource(cfg *config.Config, logger *zap.Logger) (corpus.Source, func(), error) {
	if cfg.Corpus.Source != config.CorpusSQL {
		return corpus.NewCSVSource(cfg.Corpus.Path, cfg.Corpus.TextColumn, cfg.Corpus.LabelColumn, logger), func() {}, nil
	}

	db, err := repository.OpenCorpusDB(cfg.Corpus.Driver, cfg.Corpus.DSN)
	if err != nil {
		return nil, nil, err
	}
	repo, err := repository.NewCorpusRepository(db, cfg.Corpus.Table, cfg.Corpus.TextColumn, cfg.Corpus.LabelColumn, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, func() { db.Close() }, nil
}
