// Package scorer turns a raw text into AI/human scores and remediation hints
// using the artifact pair currently served.
package scorer

import (
	"fmt"

	"ai-detector/internal/artifact"
	"ai-detector/internal/models"
)

// Hint tiers, keyed by how likely the text is machine-generated
var (
	highRiskHints = []string{
		"Try rephrasing with personal anecdotes.",
		"Break up long sentences.",
		"Inject more emotional language.",
	}
	mediumRiskHints = []string{
		"Check for formal vocabulary usage.",
		"Vary sentence structure.",
	}
	lowRiskHints = []string{
		"Looks great! Score is low AI risk.",
	}
)

// Score thresholds of the hint tiers
const (
	HighRiskThreshold   = 70.0
	MediumRiskThreshold = 40.0
)

// Scorer scores texts against one artifact pair. It is safe for concurrent use.
type Scorer struct {
	pair   *artifact.Pair
	policy Policy
}

// New binds a scorer to a validated pair
func New(pair *artifact.Pair, policy Policy) (*Scorer, error) {
	if pair == nil {
		return nil, models.Configf("scorer requires an artifact pair")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{pair: pair, policy: policy}, nil
}

// Pair returns the artifact pair the scorer was built from
func (s *Scorer) Pair() *artifact.Pair {
	return s.pair
}

// Score validates text and returns its scores. Validation failures are
// *models.ValidationError; anything that goes wrong afterwards, including a
// panic, is a *models.PredictionError.
func (s *Scorer) Score(text string) (result *models.PredictionResult, err error) {
	input, err := s.policy.Apply(text)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &models.PredictionError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	vec := s.pair.Vectorizer.Transform(input)
	_, pAI, err := s.pair.Model.PredictProba(vec)
	if err != nil {
		return nil, &models.PredictionError{Err: err}
	}

	aiScore := clamp(pAI*100, 0, 100)
	return &models.PredictionResult{
		AIScore:     aiScore,
		HumanScore:  100 - aiScore,
		Suggestions: Suggestions(aiScore),
	}, nil
}

// Risk levels of the hint tiers
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// RiskLevel returns the tier of an AI score on the 0-100 scale. The first matching tier wins.
func RiskLevel(aiScore float64) string {
	switch {
	case aiScore > HighRiskThreshold:
		return RiskHigh
	case aiScore > MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Suggestions returns the hints for an AI score on the 0-100 scale
func Suggestions(aiScore float64) []string {
	var hints []string
	switch RiskLevel(aiScore) {
	case RiskHigh:
		hints = highRiskHints
	case RiskMedium:
		hints = mediumRiskHints
	default:
		hints = lowRiskHints
	}
	return append([]string(nil), hints...)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
