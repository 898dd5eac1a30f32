package classifier

import (
	"errors"
	"math"
	"testing"

	"ai-detector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(pairs ...float64) models.FeatureVector {
	v := models.FeatureVector{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Indices = append(v.Indices, int(pairs[i]))
		v.Values = append(v.Values, pairs[i+1])
	}
	return v
}

// three features: 0 is "human", 1 is "ai", 2 is shared
func fitToy(t *testing.T) *Model {
	t.Helper()
	vectors := []models.FeatureVector{
		vec(0, 3, 2, 1),
		vec(0, 2, 2, 1),
		vec(1, 4, 2, 1),
	}
	labels := []models.Label{models.LabelHuman, models.LabelHuman, models.LabelAI}
	m, err := Fit(vectors, labels, 3, DefaultSmoothing)
	require.NoError(t, err)
	return m
}

func TestFit_PriorsAndLikelihoods(t *testing.T) {
	m := fitToy(t)

	assert.InDelta(t, math.Log(2.0/3.0), m.ClassLogPrior[models.LabelHuman], 1e-12)
	assert.InDelta(t, math.Log(1.0/3.0), m.ClassLogPrior[models.LabelAI], 1e-12)

	// human counts: f0=5, f1=0, f2=2 -> total 7, denom 7+3
	assert.InDelta(t, math.Log(6.0/10.0), m.FeatureLogProb[models.LabelHuman][0], 1e-12)
	assert.InDelta(t, math.Log(1.0/10.0), m.FeatureLogProb[models.LabelHuman][1], 1e-12)
	assert.InDelta(t, math.Log(3.0/10.0), m.FeatureLogProb[models.LabelHuman][2], 1e-12)

	// ai counts: f0=0, f1=4, f2=1 -> total 5, denom 5+3
	assert.InDelta(t, math.Log(1.0/8.0), m.FeatureLogProb[models.LabelAI][0], 1e-12)
	assert.InDelta(t, math.Log(5.0/8.0), m.FeatureLogProb[models.LabelAI][1], 1e-12)
}

func TestFit_Errors(t *testing.T) {
	var cfgErr *models.ConfigError

	_, err := Fit([]models.FeatureVector{vec(0, 1)}, nil, 1, 1)
	assert.True(t, errors.As(err, &cfgErr), "length mismatch")

	_, err = Fit([]models.FeatureVector{vec(0, 1), vec(0, 1)}, []models.Label{0, 2}, 1, 1)
	assert.True(t, errors.As(err, &cfgErr), "label outside {0,1}")

	_, err = Fit([]models.FeatureVector{vec(0, 1), vec(0, 1)}, []models.Label{0, 0}, 1, 1)
	assert.True(t, errors.As(err, &cfgErr), "single class")

	_, err = Fit([]models.FeatureVector{vec(5, 1), vec(0, 1)}, []models.Label{0, 1}, 1, 1)
	assert.True(t, errors.As(err, &cfgErr), "index out of range")

	_, err = Fit([]models.FeatureVector{vec(0, -1), vec(0, 1)}, []models.Label{0, 1}, 1, 1)
	assert.True(t, errors.As(err, &cfgErr), "negative value")

	_, err = Fit([]models.FeatureVector{vec(0, 1), vec(0, 1)}, []models.Label{0, 1}, 1, 0)
	assert.True(t, errors.As(err, &cfgErr), "zero smoothing")
}

func TestPredictProba_Closure(t *testing.T) {
	m := fitToy(t)

	for _, v := range []models.FeatureVector{vec(0, 10), vec(1, 10), vec(2, 1), vec(), vec(0, 1000, 1, 1000)} {
		pHuman, pAI, err := m.PredictProba(v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, pHuman+pAI, 1e-12)
		assert.GreaterOrEqual(t, pHuman, 0.0)
		assert.LessOrEqual(t, pHuman, 1.0)
		assert.GreaterOrEqual(t, pAI, 0.0)
		assert.LessOrEqual(t, pAI, 1.0)
	}
}

func TestPredictProba_Direction(t *testing.T) {
	m := fitToy(t)

	_, pAI, err := m.PredictProba(vec(1, 3))
	require.NoError(t, err)
	assert.Greater(t, pAI, 0.5)

	label, err := m.Predict(vec(0, 3))
	require.NoError(t, err)
	assert.Equal(t, models.LabelHuman, label)
}

func TestPredictProba_EmptyVectorUsesPriors(t *testing.T) {
	m := fitToy(t)

	pHuman, pAI, err := m.PredictProba(vec())
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, pHuman, 1e-12)
	assert.InDelta(t, 1.0/3.0, pAI, 1e-12)
}

func TestPredictProba_ExtremeScoresDoNotOverflow(t *testing.T) {
	m := fitToy(t)

	pHuman, pAI, err := m.PredictProba(vec(1, 1e6))
	require.NoError(t, err)
	assert.False(t, math.IsNaN(pAI))
	assert.InDelta(t, 1.0, pAI, 1e-9)
	assert.InDelta(t, 0.0, pHuman, 1e-9)
}

func TestPredictProba_RejectsOutOfRangeIndex(t *testing.T) {
	m := fitToy(t)

	_, _, err := m.PredictProba(vec(7, 1))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	m := fitToy(t)
	m.VocabularyDigest = "abc"

	blob, err := m.MarshalBinary()
	require.NoError(t, err)

	var restored Model
	require.NoError(t, restored.UnmarshalBinary(blob))
	assert.Equal(t, m.NumFeatures, restored.NumFeatures)
	assert.Equal(t, "abc", restored.VocabularyDigest)

	for _, v := range []models.FeatureVector{vec(0, 1), vec(1, 2, 2, 1)} {
		h1, a1, err := m.PredictProba(v)
		require.NoError(t, err)
		h2, a2, err := restored.PredictProba(v)
		require.NoError(t, err)
		assert.InDelta(t, h1, h2, 1e-12)
		assert.InDelta(t, a1, a2, 1e-12)
	}
}

func TestUnmarshal_RejectsShapeMismatch(t *testing.T) {
	var m Model
	err := m.UnmarshalBinary([]byte(`{"format":1,"smoothing":1,"num_features":3,"class_count":[1,1],` +
		`"feature_count":[[1,1,1],[1,1,1]],"class_log_prior":[-0.69,-0.69],"feature_log_prob":[[-1,-1],[-1,-1,-1]]}`))
	var mismatch *models.ArtifactMismatchError
	require.True(t, errors.As(err, &mismatch))
}
