package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	manifestFile  = "manifest.json"
	versionPrefix = "pair-"
)

// writeArtifactFile is replaced in tests to simulate a failing disk
var writeArtifactFile = os.WriteFile

// FileStore keeps each saved pair in its own version directory. The manifest names
// the version being served and is replaced last, so it is what commits a new pair.
type FileStore struct {
	dir            string
	vectorizerFile string
	modelFile      string
	logger         *zap.Logger
}

type manifest struct {
	RunID          string    `json:"run_id"`
	TrainedAt      time.Time `json:"trained_at"`
	Version        string    `json:"version,omitempty"`
	VectorizerFile string    `json:"vectorizer_file"`
	ModelFile      string    `json:"model_file"`
}

// NewFileStore creates a file-backed artifact store
func NewFileStore(dir, vectorizerFile, modelFile string, logger *zap.Logger) *FileStore {
	return &FileStore{
		dir:            dir,
		vectorizerFile: vectorizerFile,
		modelFile:      modelFile,
		logger:         logger,
	}
}

// Save writes both blobs into a fresh version directory, then atomically replaces
// the manifest. A failure before the manifest rename leaves the served pair untouched.
func (s *FileStore) Save(ctx context.Context, pair *Pair) error {
	vectorizerBlob, modelBlob, err := pair.Encode()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	previous, err := s.readManifest()
	if err != nil {
		s.logger.Warn("Ignoring unreadable manifest", zap.Error(err))
	}

	versionDir, err := os.MkdirTemp(s.dir, versionPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create version directory: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(versionDir)
		}
	}()

	for _, f := range []struct {
		name string
		data []byte
	}{
		{s.vectorizerFile, vectorizerBlob},
		{s.modelFile, modelBlob},
	} {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeArtifactFile(filepath.Join(versionDir, f.name), f.data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}

	version := filepath.Base(versionDir)
	manifestBlob, err := json.MarshalIndent(manifest{
		RunID:          pair.RunID,
		TrainedAt:      pair.TrainedAt,
		Version:        version,
		VectorizerFile: s.vectorizerFile,
		ModelFile:      s.modelFile,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.commitManifest(manifestBlob); err != nil {
		return err
	}
	committed = true

	s.prune(version, previous.Version)

	s.logger.Info("Artifacts written",
		zap.String("dir", versionDir),
		zap.String("run_id", pair.RunID),
		zap.Int("vectorizer_bytes", len(vectorizerBlob)),
		zap.Int("model_bytes", len(modelBlob)))
	return nil
}

func (s *FileStore) commitManifest(data []byte) error {
	tmp, err := os.CreateTemp(s.dir, manifestFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, manifestFile)); err != nil {
		return fmt.Errorf("failed to commit manifest: %w", err)
	}
	return nil
}

// prune removes version directories other than the current and the previous one.
// The previous version is kept for readers that opened the old manifest.
func (s *FileStore) prune(current, previous string) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("Failed to list artifact directory", zap.Error(err))
		return
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || !strings.HasPrefix(name, versionPrefix) || name == current || name == previous {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.dir, name)); err != nil {
			s.logger.Warn("Failed to remove stale artifacts", zap.String("version", name), zap.Error(err))
		}
	}
}

func (s *FileStore) readManifest() (manifest, error) {
	var meta manifest
	raw, err := os.ReadFile(filepath.Join(s.dir, manifestFile))
	if os.IsNotExist(err) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return manifest{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return meta, nil
}

// Load reads the pair named by the manifest and validates it. Without a manifest the
// two files are read straight from the store directory.
func (s *FileStore) Load(ctx context.Context) (*Pair, error) {
	meta, err := s.readManifest()
	if err != nil {
		return nil, err
	}

	dir, vectorizerFile, modelFile := s.dir, s.vectorizerFile, s.modelFile
	if meta.Version != "" {
		dir = filepath.Join(s.dir, filepath.Base(meta.Version))
		vectorizerFile, modelFile = meta.VectorizerFile, meta.ModelFile
	}

	vectorizerBlob, err := os.ReadFile(filepath.Join(dir, vectorizerFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read vectorizer: %w", err)
	}
	modelBlob, err := os.ReadFile(filepath.Join(dir, modelFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	pair, err := Decode(vectorizerBlob, modelBlob, meta.RunID, meta.TrainedAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Artifacts loaded",
		zap.String("dir", dir),
		zap.String("run_id", pair.RunID),
		zap.Int("vocabulary_size", pair.Vectorizer.VocabularySize()))
	return pair, nil
}
