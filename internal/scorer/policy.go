package scorer

import (
	"unicode/utf8"

	"ai-detector/internal/models"
)

// What to do with a text longer than Policy.MaxLength
const (
	LongTextAccept   = "accept"
	LongTextTruncate = "truncate"
	LongTextReject   = "reject"
)

// Reasons returned to callers in a ValidationError
const (
	ReasonTooShort = "Text too short or missing"
	ReasonTooLong  = "Text too long"
)

// Policy bounds the length of scored texts. Lengths count Unicode code points.
type Policy struct {
	MinLength int    `yaml:"min_length" split_words:"true" validate:"gte=0"`
	MaxLength int    `yaml:"max_length" split_words:"true" validate:"gte=0"`
	LongText  string `yaml:"long_text_policy" split_words:"true" validate:"omitempty,oneof=accept truncate reject"`
}

// DefaultPolicy requires 50 code points and accepts any longer text
func DefaultPolicy() Policy {
	return Policy{
		MinLength: 50,
		MaxLength: 0,
		LongText:  LongTextAccept,
	}
}

// Validate checks that the policy is usable
func (p Policy) Validate() error {
	if p.MinLength < 0 || p.MaxLength < 0 {
		return models.Configf("length bounds must not be negative (min %d, max %d)", p.MinLength, p.MaxLength)
	}
	if p.MaxLength > 0 && p.MaxLength < p.MinLength {
		return models.Configf("max_length %d is below min_length %d", p.MaxLength, p.MinLength)
	}
	switch p.LongText {
	case LongTextAccept, LongTextTruncate, LongTextReject, "":
	default:
		return models.Configf("unknown long text policy %q", p.LongText)
	}
	return nil
}

// Apply returns the text to score, or a ValidationError
func (p Policy) Apply(text string) (string, error) {
	n := utf8.RuneCountInString(text)
	if n < p.MinLength || n == 0 {
		return "", &models.ValidationError{Reason: ReasonTooShort}
	}
	if p.MaxLength == 0 || n <= p.MaxLength {
		return text, nil
	}

	switch p.LongText {
	case LongTextReject:
		return "", &models.ValidationError{Reason: ReasonTooLong}
	case LongTextTruncate:
		return truncateRunes(text, p.MaxLength), nil
	default:
		return text, nil
	}
}

func truncateRunes(text string, n int) string {
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
