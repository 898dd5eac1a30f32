package models

// Label is the binary class of a document
type Label int

const (
	LabelHuman Label = 0 // Written by a person
	LabelAI    Label = 1 // Machine-generated
)

// LabelNames maps labels to the names used in reports
var LabelNames = map[Label]string{
	LabelHuman: "Human",
	LabelAI:    "AI",
}

// Valid reports whether the label is one of the two known classes
func (l Label) Valid() bool {
	return l == LabelHuman || l == LabelAI
}

func (l Label) String() string {
	if name, ok := LabelNames[l]; ok {
		return name
	}
	return "Unknown"
}

// Document represents a labeled training sample
type Document struct {
	Text  string `json:"text" db:"text"`
	Label Label  `json:"label" db:"label"`
}

// FeatureVector is a sparse weighted term vector over a fixed vocabulary.
// Indices are strictly ascending and every value is non-negative.
type FeatureVector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of materialized (non-zero) entries
func (v FeatureVector) Len() int {
	return len(v.Indices)
}
