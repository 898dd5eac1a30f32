package textfeat

import (
	"errors"
	"math"
	"testing"

	"ai-detector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleDocs = []string{
	"The quick brown fox jumps over the lazy dog",
	"A quick brown dog outpaces a quick red fox",
	"Lazy afternoons make for lazy dogs and sleepy foxes",
}

func TestTokenize(t *testing.T) {
	got := tokenize("Hello, WORLD! It's a 2nd-try: x y zz_top café")
	assert.Equal(t, []string{"hello", "world", "it", "2nd", "try", "zz_top", "café"}, got)
}

func TestNgrams(t *testing.T) {
	got := ngrams([]string{"quick", "brown", "fox"}, 1, 2)
	assert.Equal(t, []string{"quick", "brown", "fox", "quick brown", "brown fox"}, got)
	assert.Nil(t, ngrams(nil, 1, 2))
}

func TestFit_RejectsInvalidConfig(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxFeatures = 0
	_, err := Fit(sampleDocs, opts)
	var cfgErr *models.ConfigError
	require.True(t, errors.As(err, &cfgErr))

	_, err = Fit(nil, DefaultOptions())
	require.True(t, errors.As(err, &cfgErr))

	opts = DefaultOptions()
	opts.NgramMin, opts.NgramMax = 2, 1
	_, err = Fit(sampleDocs, opts)
	require.True(t, errors.As(err, &cfgErr))

	_, err = Fit([]string{"the and of", "a an"}, DefaultOptions())
	require.True(t, errors.As(err, &cfgErr))
}

func TestFit_StopWordsAndBigrams(t *testing.T) {
	v, err := Fit(sampleDocs, DefaultOptions())
	require.NoError(t, err)

	_, ok := v.Index("the")
	assert.False(t, ok, "stop words must be excluded")
	_, ok = v.Index("quick brown")
	assert.True(t, ok, "bigrams must be included")
	// "over" is a stop word so the bigram skips it
	_, ok = v.Index("jumps lazy")
	assert.True(t, ok)
}

func TestFit_MaxFeaturesKeepsMostFrequent(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxFeatures = 3
	v, err := Fit(sampleDocs, opts)
	require.NoError(t, err)

	// quick=3, lazy=3, then brown/fox at 2 -> tie broken lexicographically -> brown
	assert.Equal(t, []string{"brown", "lazy", "quick"}, v.Terms())
}

func TestFit_Deterministic(t *testing.T) {
	a, err := Fit(sampleDocs, DefaultOptions())
	require.NoError(t, err)
	b, err := Fit(sampleDocs, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.Terms(), b.Terms())
	assert.Equal(t, a.Digest(), b.Digest())
	for i := range a.Terms() {
		assert.Equal(t, a.IDF(i), b.IDF(i))
	}
}

func TestFit_IDFFormula(t *testing.T) {
	v, err := Fit(sampleDocs, DefaultOptions())
	require.NoError(t, err)

	// "quick" appears in 2 of 3 documents
	idx, ok := v.Index("quick")
	require.True(t, ok)
	assert.InDelta(t, math.Log(4.0/3.0)+1, v.IDF(idx), 1e-12)

	// "red" appears in 1 of 3 documents
	idx, ok = v.Index("red")
	require.True(t, ok)
	assert.InDelta(t, math.Log(4.0/2.0)+1, v.IDF(idx), 1e-12)
}

func TestTransform(t *testing.T) {
	v, err := Fit(sampleDocs, DefaultOptions())
	require.NoError(t, err)

	vec := v.Transform("quick quick zebra")
	require.Equal(t, 1, vec.Len(), "only the known unigram survives; the bigrams are unseen")

	idx, _ := v.Index("quick")
	assert.Equal(t, idx, vec.Indices[0])
	assert.InDelta(t, 2*v.IDF(idx), vec.Values[0], 1e-12)

	empty := v.Transform("zebras xylophones")
	assert.Zero(t, empty.Len())
}

func TestTransform_IndicesAscending(t *testing.T) {
	v, err := Fit(sampleDocs, DefaultOptions())
	require.NoError(t, err)

	vec := v.Transform(sampleDocs[1])
	for i := 1; i < vec.Len(); i++ {
		assert.Less(t, vec.Indices[i-1], vec.Indices[i])
	}
}

func TestTransform_L2Norm(t *testing.T) {
	opts := DefaultOptions()
	opts.Norm = NormL2
	v, err := Fit(sampleDocs, opts)
	require.NoError(t, err)

	vec := v.Transform(sampleDocs[0])
	var sumSq float64
	for _, x := range vec.Values {
		sumSq += x * x
	}
	assert.InDelta(t, 1.0, sumSq, 1e-9)
}

func TestMarshalRoundTrip(t *testing.T) {
	v, err := Fit(sampleDocs, DefaultOptions())
	require.NoError(t, err)

	blob, err := v.MarshalBinary()
	require.NoError(t, err)

	var restored Vectorizer
	require.NoError(t, restored.UnmarshalBinary(blob))

	assert.Equal(t, v.Terms(), restored.Terms())
	assert.Equal(t, v.Options(), restored.Options())
	assert.Equal(t, v.Transform(sampleDocs[2]), restored.Transform(sampleDocs[2]))
}

func TestUnmarshal_RejectsInconsistentState(t *testing.T) {
	var v Vectorizer
	err := v.UnmarshalBinary([]byte(`{"format":1,"options":{"max_features":10,"ngram_min":1,"ngram_max":2,"stop_words":"english","norm":"none"},"terms":["a","b"],"idf":[1.0]}`))
	var mismatch *models.ArtifactMismatchError
	require.True(t, errors.As(err, &mismatch))

	err = v.UnmarshalBinary([]byte(`not json`))
	require.Error(t, err)
}
