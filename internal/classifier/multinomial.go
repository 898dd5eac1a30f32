// Package classifier implements a two-class multinomial event-count model
// with additive smoothing.
package classifier

import (
	"encoding/json"
	"fmt"
	"math"

	"ai-detector/internal/models"
)

const numClasses = 2

const formatVersion = 1

// DefaultSmoothing is the Laplace smoothing constant
const DefaultSmoothing = 1.0

// Model is a fitted classifier. It is never mutated after Fit, so a single
// instance can serve concurrent predictions.
type Model struct {
	Smoothing        float64
	NumFeatures      int
	ClassCount       [numClasses]float64
	FeatureCount     [numClasses][]float64
	ClassLogPrior    [numClasses]float64
	FeatureLogProb   [numClasses][]float64
	// VocabularyDigest identifies the vocabulary the model was trained against
	VocabularyDigest string
}

// Fit estimates class priors and per-class feature log-likelihoods
func Fit(vectors []models.FeatureVector, labels []models.Label, numFeatures int, smoothing float64) (*Model, error) {
	if len(vectors) != len(labels) {
		return nil, models.Configf("got %d feature vectors but %d labels", len(vectors), len(labels))
	}
	if len(vectors) == 0 {
		return nil, models.Configf("cannot fit classifier on zero samples")
	}
	if numFeatures <= 0 {
		return nil, models.Configf("number of features must be positive, got %d", numFeatures)
	}
	if smoothing <= 0 || math.IsNaN(smoothing) || math.IsInf(smoothing, 0) {
		return nil, models.Configf("smoothing must be a positive finite number, got %v", smoothing)
	}

	m := &Model{Smoothing: smoothing, NumFeatures: numFeatures}
	for c := 0; c < numClasses; c++ {
		m.FeatureCount[c] = make([]float64, numFeatures)
	}

	for i, v := range vectors {
		label := labels[i]
		if !label.Valid() {
			return nil, models.Configf("label %d at row %d is outside {0,1}", label, i)
		}
		if len(v.Indices) != len(v.Values) {
			return nil, models.Configf("feature vector %d is malformed", i)
		}
		m.ClassCount[label]++
		for k, idx := range v.Indices {
			if idx < 0 || idx >= numFeatures {
				return nil, models.Configf("feature index %d at row %d is outside [0,%d)", idx, i, numFeatures)
			}
			val := v.Values[k]
			if val < 0 || math.IsNaN(val) || math.IsInf(val, 0) {
				return nil, models.Configf("feature value %v at row %d is not a non-negative count", val, i)
			}
			m.FeatureCount[label][idx] += val
		}
	}

	total := m.ClassCount[0] + m.ClassCount[1]
	for c := 0; c < numClasses; c++ {
		if m.ClassCount[c] == 0 {
			return nil, models.Configf("no training samples for class %s", models.Label(c))
		}
		m.ClassLogPrior[c] = math.Log(m.ClassCount[c] / total)

		var classTotal float64
		for _, fc := range m.FeatureCount[c] {
			classTotal += fc
		}
		denom := math.Log(classTotal + smoothing*float64(numFeatures))

		m.FeatureLogProb[c] = make([]float64, numFeatures)
		for t, fc := range m.FeatureCount[c] {
			m.FeatureLogProb[c][t] = math.Log(fc+smoothing) - denom
		}
	}

	return m, nil
}

// JointLogLikelihood returns the unnormalized log-score of each class
func (m *Model) JointLogLikelihood(v models.FeatureVector) ([numClasses]float64, error) {
	scores := m.ClassLogPrior
	if len(v.Indices) != len(v.Values) {
		return scores, fmt.Errorf("malformed feature vector: %d indices, %d values", len(v.Indices), len(v.Values))
	}
	for k, idx := range v.Indices {
		if idx < 0 || idx >= m.NumFeatures {
			return scores, fmt.Errorf("feature index %d outside [0,%d)", idx, m.NumFeatures)
		}
		for c := 0; c < numClasses; c++ {
			scores[c] += v.Values[k] * m.FeatureLogProb[c][idx]
		}
	}
	return scores, nil
}

// PredictProba returns the normalized probabilities of the human and AI classes.
// They sum to 1 and both lie in [0,1].
func (m *Model) PredictProba(v models.FeatureVector) (pHuman, pAI float64, err error) {
	scores, err := m.JointLogLikelihood(v)
	if err != nil {
		return 0, 0, err
	}

	maxScore := math.Max(scores[0], scores[1])
	if math.IsNaN(maxScore) || math.IsInf(maxScore, 0) {
		return 0, 0, fmt.Errorf("non-finite class score %v", maxScore)
	}
	eHuman := math.Exp(scores[0] - maxScore)
	eAI := math.Exp(scores[1] - maxScore)
	sum := eHuman + eAI

	pAI = eAI / sum
	return 1 - pAI, pAI, nil
}

// Predict returns the most probable label; ties go to the human class
func (m *Model) Predict(v models.FeatureVector) (models.Label, error) {
	pHuman, pAI, err := m.PredictProba(v)
	if err != nil {
		return models.LabelHuman, err
	}
	if pAI > pHuman {
		return models.LabelAI, nil
	}
	return models.LabelHuman, nil
}

type modelState struct {
	Format           int                   `json:"format"`
	Smoothing        float64               `json:"smoothing"`
	NumFeatures      int                   `json:"num_features"`
	ClassCount       [numClasses]float64   `json:"class_count"`
	FeatureCount     [numClasses][]float64 `json:"feature_count"`
	ClassLogPrior    [numClasses]float64   `json:"class_log_prior"`
	FeatureLogProb   [numClasses][]float64 `json:"feature_log_prob"`
	VocabularyDigest string                `json:"vocabulary_digest,omitempty"`
}

// MarshalBinary encodes the model as JSON
func (m *Model) MarshalBinary() ([]byte, error) {
	return json.Marshal(modelState{
		Format:           formatVersion,
		Smoothing:        m.Smoothing,
		NumFeatures:      m.NumFeatures,
		ClassCount:       m.ClassCount,
		FeatureCount:     m.FeatureCount,
		ClassLogPrior:    m.ClassLogPrior,
		FeatureLogProb:   m.FeatureLogProb,
		VocabularyDigest: m.VocabularyDigest,
	})
}

// UnmarshalBinary restores a model produced by MarshalBinary
func (m *Model) UnmarshalBinary(data []byte) error {
	var state modelState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("decode model: %w", err)
	}
	if state.Format != formatVersion {
		return models.Mismatchf("model format %d, expected %d", state.Format, formatVersion)
	}
	if state.NumFeatures <= 0 {
		return models.Mismatchf("model has %d features", state.NumFeatures)
	}
	for c := 0; c < numClasses; c++ {
		if len(state.FeatureLogProb[c]) != state.NumFeatures {
			return models.Mismatchf("class %d has %d log-probabilities for %d features",
				c, len(state.FeatureLogProb[c]), state.NumFeatures)
		}
		if len(state.FeatureCount[c]) != state.NumFeatures {
			return models.Mismatchf("class %d has %d feature counts for %d features",
				c, len(state.FeatureCount[c]), state.NumFeatures)
		}
	}

	*m = Model{
		Smoothing:        state.Smoothing,
		NumFeatures:      state.NumFeatures,
		ClassCount:       state.ClassCount,
		FeatureCount:     state.FeatureCount,
		ClassLogPrior:    state.ClassLogPrior,
		FeatureLogProb:   state.FeatureLogProb,
		VocabularyDigest: state.VocabularyDigest,
	}
	return nil
}
