package models

import "time"

// DetectRequest is the body of a single detection request
type DetectRequest struct {
	Text string `json:"text" binding:"required"`
}

// BatchDetectRequest scores several texts in one call
type BatchDetectRequest struct {
	Texts []string `json:"texts" binding:"required,min=1,max=100"`
}

// PredictionResult is returned for every successfully scored text.
// AIScore + HumanScore == 100 within floating tolerance.
type PredictionResult struct {
	AIScore     float64  `json:"ai_score"`
	HumanScore  float64  `json:"human_score"`
	Suggestions []string `json:"suggestions"`
}

// BatchItemResult holds the outcome for one text of a batch request
type BatchItemResult struct {
	Index  int               `json:"index"`
	Result *PredictionResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// ModelInfo describes the artifact pair currently served
type ModelInfo struct {
	RunID          string    `json:"run_id"`
	TrainedAt      time.Time `json:"trained_at"`
	VocabularySize int       `json:"vocabulary_size"`
	NgramMin       int       `json:"ngram_min"`
	NgramMax       int       `json:"ngram_max"`
	StopWords      string    `json:"stop_words"`
	Smoothing      float64   `json:"smoothing"`
}
