// Package artifact groups the fitted vectorizer and classifier into a pair that is
// validated, persisted and swapped as one unit.
package artifact

import (
	"context"
	"fmt"
	"time"

	"ai-detector/internal/classifier"
	"ai-detector/internal/models"
	"ai-detector/internal/textfeat"
)

// Pair is an immutable, mutually consistent vectorizer/classifier couple
type Pair struct {
	Vectorizer *textfeat.Vectorizer
	Model      *classifier.Model
	RunID      string
	TrainedAt  time.Time
}

// Store persists and restores artifact pairs
type Store interface {
	Save(ctx context.Context, pair *Pair) error
	Load(ctx context.Context) (*Pair, error)
}

// NewPair validates that the model was trained against the vectorizer's vocabulary
func NewPair(v *textfeat.Vectorizer, m *classifier.Model, runID string, trainedAt time.Time) (*Pair, error) {
	if v == nil || m == nil {
		return nil, models.Mismatchf("both a vectorizer and a model are required")
	}
	if v.VocabularySize() != m.NumFeatures {
		return nil, models.Mismatchf("vectorizer has %d terms but model expects %d features",
			v.VocabularySize(), m.NumFeatures)
	}
	if m.VocabularyDigest != "" && m.VocabularyDigest != v.Digest() {
		return nil, models.Mismatchf("model was trained against a different vocabulary ordering")
	}
	return &Pair{Vectorizer: v, Model: m, RunID: runID, TrainedAt: trainedAt}, nil
}

// Encode serializes both halves of the pair
func (p *Pair) Encode() (vectorizerBlob, modelBlob []byte, err error) {
	vectorizerBlob, err = p.Vectorizer.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("encode vectorizer: %w", err)
	}
	modelBlob, err = p.Model.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("encode model: %w", err)
	}
	return vectorizerBlob, modelBlob, nil
}

// Decode restores a pair from its two blobs and validates them together
func Decode(vectorizerBlob, modelBlob []byte, runID string, trainedAt time.Time) (*Pair, error) {
	v := &textfeat.Vectorizer{}
	if err := v.UnmarshalBinary(vectorizerBlob); err != nil {
		return nil, err
	}
	m := &classifier.Model{}
	if err := m.UnmarshalBinary(modelBlob); err != nil {
		return nil, err
	}
	return NewPair(v, m, runID, trainedAt)
}

// Info summarizes the pair for the model endpoint and logs
func (p *Pair) Info() models.ModelInfo {
	opts := p.Vectorizer.Options()
	return models.ModelInfo{
		RunID:          p.RunID,
		TrainedAt:      p.TrainedAt,
		VocabularySize: p.Vectorizer.VocabularySize(),
		NgramMin:       opts.NgramMin,
		NgramMax:       opts.NgramMax,
		StopWords:      opts.StopWords,
		Smoothing:      p.Model.Smoothing,
	}
}
