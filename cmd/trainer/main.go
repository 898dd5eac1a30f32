package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ai-detector/internal/bootstrap"
	"ai-detector/internal/config"
	"ai-detector/internal/repository"
	"ai-detector/internal/trainer"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yml", "path to the YAML configuration file")
	dataset := flag.String("dataset", "", "CSV dataset to train on (overrides corpus settings)")
	quiet := flag.Bool("quiet", false, "do not print the classification report")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *dataset != "" {
		cfg.Corpus.Source = config.CorpusCSV
		cfg.Corpus.Path = *dataset
	}
	if logger, err = cfg.NewLogger(); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.OpenDetectorDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	source, closeSource, err := bootstrap.CorpusSource(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open corpus", zap.Error(err))
	}
	defer closeSource()

	tr := trainer.New(
		cfg.Training,
		bootstrap.ArtifactStore(cfg, db, logger),
		repository.NewRunRepository(db, logger),
		logger,
	)

	result, err := tr.Run(ctx, source)
	if err != nil {
		logger.Fatal("Training failed, no artifacts were written", zap.Error(err))
	}

	if !*quiet {
		trainer.WriteReport(os.Stdout, result.Metrics)
	}

	logger.Info("Model and vectorizer saved",
		zap.String("run_id", result.Run.ID),
		zap.String("store", cfg.Artifacts.Store),
		zap.Float64("accuracy", result.Metrics.Accuracy))
}
