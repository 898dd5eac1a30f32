// Package corpus loads labeled (text, label) pairs for training.
package corpus

import (
	"context"
	"strconv"
	"strings"

	"ai-detector/internal/models"
)

// Default column names of the labeled dataset
const (
	DefaultTextColumn  = "text"
	DefaultLabelColumn = "generated"
)

// Source yields validated documents. Rows with a missing text or a label that does not
// coerce to 0 or 1 are dropped; an empty result is a CorpusError.
type Source interface {
	Load(ctx context.Context) ([]models.Document, error)
}

// CoerceLabel converts a raw label cell to a Label. Numeric values equal to exactly
// 0 or 1 are accepted ("1", "0.0", " 1 ").
func CoerceLabel(raw string) (models.Label, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	switch f {
	case 0:
		return models.LabelHuman, true
	case 1:
		return models.LabelAI, true
	default:
		return 0, false
	}
}

// NewDocument validates a raw row. ok is false when the row must be dropped.
func NewDocument(text, label string) (doc models.Document, ok bool) {
	if strings.TrimSpace(text) == "" {
		return models.Document{}, false
	}
	l, ok := CoerceLabel(label)
	if !ok {
		return models.Document{}, false
	}
	return models.Document{Text: text, Label: l}, true
}
