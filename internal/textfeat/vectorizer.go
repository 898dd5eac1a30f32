// Package textfeat turns raw text into TF-IDF weighted unigram/bigram vectors
// over a vocabulary fixed at training time.
package textfeat

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"ai-detector/internal/models"
)

// Norm names accepted in Options.Norm
const (
	NormNone = "none"
	NormL2   = "l2"
)

// formatVersion is bumped whenever the serialized layout changes
const formatVersion = 1

// Options configures vocabulary construction
type Options struct {
	MaxFeatures int    `json:"max_features" yaml:"max_features" split_words:"true"`
	NgramMin    int    `json:"ngram_min" yaml:"ngram_min" split_words:"true"`
	NgramMax    int    `json:"ngram_max" yaml:"ngram_max" split_words:"true"`
	StopWords   string `json:"stop_words" yaml:"stop_words" split_words:"true"`
	Norm        string `json:"norm" yaml:"norm"`
}

// DefaultOptions mirrors the settings the detector has always been trained with
func DefaultOptions() Options {
	return Options{
		MaxFeatures: 10000,
		NgramMin:    1,
		NgramMax:    2,
		StopWords:   StopWordsEnglish,
		Norm:        NormNone,
	}
}

func (o Options) validate() error {
	if o.MaxFeatures <= 0 {
		return models.Configf("max_features must be positive, got %d", o.MaxFeatures)
	}
	if o.NgramMin < 1 || o.NgramMax < o.NgramMin {
		return models.Configf("invalid ngram range (%d, %d)", o.NgramMin, o.NgramMax)
	}
	if _, ok := stopWordSet(o.StopWords); !ok {
		return models.Configf("unknown stop word list %q", o.StopWords)
	}
	switch o.Norm {
	case NormNone, NormL2, "":
	default:
		return models.Configf("unknown norm %q", o.Norm)
	}
	return nil
}

// Vectorizer holds a fitted vocabulary and its IDF weights. It is immutable after Fit
// and safe for concurrent use.
type Vectorizer struct {
	opts       Options
	terms      []string
	vocabulary map[string]int
	idf        []float64
	stop       map[string]struct{}
}

type termStat struct {
	term  string
	count int
}

// Fit builds the vocabulary from the training documents. The MaxFeatures most frequent
// terms across the corpus are kept (ties broken lexicographically) and indexed in
// lexicographic order.
func Fit(docs []string, opts Options) (*Vectorizer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, models.Configf("cannot fit vectorizer on an empty corpus")
	}

	stop, _ := stopWordSet(opts.StopWords)
	v := &Vectorizer{opts: opts, stop: stop}

	counts := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range v.analyze(doc) {
			counts[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}
	if len(counts) == 0 {
		return nil, models.Configf("empty vocabulary: documents contain only stop words or short tokens")
	}

	stats := make([]termStat, 0, len(counts))
	for term, c := range counts {
		stats = append(stats, termStat{term: term, count: c})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].term < stats[j].term
	})
	if len(stats) > opts.MaxFeatures {
		stats = stats[:opts.MaxFeatures]
	}

	v.terms = make([]string, len(stats))
	for i, s := range stats {
		v.terms[i] = s.term
	}
	sort.Strings(v.terms)

	n := float64(len(docs))
	v.vocabulary = make(map[string]int, len(v.terms))
	v.idf = make([]float64, len(v.terms))
	for i, term := range v.terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return v, nil
}

// analyze applies tokenization, stop word removal and n-gram expansion
func (v *Vectorizer) analyze(text string) []string {
	tokens := tokenize(text)
	kept := tokens[:0]
	for _, t := range tokens {
		if _, ok := v.stop[t]; !ok {
			kept = append(kept, t)
		}
	}
	return ngrams(kept, v.opts.NgramMin, v.opts.NgramMax)
}

// Transform maps a text onto the fitted vocabulary. Terms never seen during Fit are ignored.
func (v *Vectorizer) Transform(text string) models.FeatureVector {
	counts := make(map[int]float64)
	for _, term := range v.analyze(text) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	vec := models.FeatureVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	var sumSq float64
	for _, idx := range vec.Indices {
		w := counts[idx] * v.idf[idx]
		vec.Values = append(vec.Values, w)
		sumSq += w * w
	}

	if v.opts.Norm == NormL2 && sumSq > 0 {
		norm := math.Sqrt(sumSq)
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// TransformAll vectorizes every document in order
func (v *Vectorizer) TransformAll(docs []string) []models.FeatureVector {
	out := make([]models.FeatureVector, len(docs))
	for i, d := range docs {
		out[i] = v.Transform(d)
	}
	return out
}

// VocabularySize returns the number of features produced by Transform
func (v *Vectorizer) VocabularySize() int {
	return len(v.terms)
}

// Index returns the feature index of a term
func (v *Vectorizer) Index(term string) (int, bool) {
	idx, ok := v.vocabulary[term]
	return idx, ok
}

// Terms returns the vocabulary in index order
func (v *Vectorizer) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// IDF returns the weight of the feature at idx
func (v *Vectorizer) IDF(idx int) float64 {
	return v.idf[idx]
}

func (v *Vectorizer) Options() Options {
	return v.opts
}

// Digest fingerprints the ordered vocabulary so a classifier trained against it can be matched later
func (v *Vectorizer) Digest() string {
	h := sha256.New()
	for _, t := range v.terms {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type vectorizerState struct {
	Format  int       `json:"format"`
	Options Options   `json:"options"`
	Terms   []string  `json:"terms"`
	IDF     []float64 `json:"idf"`
}

// MarshalBinary encodes the fitted state as JSON
func (v *Vectorizer) MarshalBinary() ([]byte, error) {
	return json.Marshal(vectorizerState{
		Format:  formatVersion,
		Options: v.opts,
		Terms:   v.terms,
		IDF:     v.idf,
	})
}

// UnmarshalBinary restores a vectorizer produced by MarshalBinary
func (v *Vectorizer) UnmarshalBinary(data []byte) error {
	var state vectorizerState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("decode vectorizer: %w", err)
	}
	if state.Format != formatVersion {
		return models.Mismatchf("vectorizer format %d, expected %d", state.Format, formatVersion)
	}
	if err := state.Options.validate(); err != nil {
		return err
	}
	if len(state.Terms) == 0 {
		return models.Mismatchf("vectorizer has an empty vocabulary")
	}
	if len(state.Terms) != len(state.IDF) {
		return models.Mismatchf("vectorizer has %d terms but %d idf weights", len(state.Terms), len(state.IDF))
	}

	vocabulary := make(map[string]int, len(state.Terms))
	for i, term := range state.Terms {
		if _, dup := vocabulary[term]; dup || term == "" {
			return models.Mismatchf("vectorizer vocabulary has an invalid or duplicate term at index %d", i)
		}
		if w := state.IDF[i]; math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			return models.Mismatchf("vectorizer idf weight at index %d is not positive", i)
		}
		vocabulary[term] = i
	}

	stop, _ := stopWordSet(state.Options.StopWords)
	*v = Vectorizer{
		opts:       state.Options,
		terms:      state.Terms,
		vocabulary: vocabulary,
		idf:        state.IDF,
		stop:       stop,
	}
	return nil
}
