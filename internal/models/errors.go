package models

import "fmt"

// ConfigError reports an invalid training or service configuration
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %v", e.Msg, e.Err)
	}
	return "config error: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Configf builds a ConfigError from a format string
func Configf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// CorpusError reports a corpus that is unreadable, lacks a required field or is empty after validation.
// Field names the offending column when one is known.
type CorpusError struct {
	Field string
	Msg   string
	Err   error
}

func (e *CorpusError) Error() string {
	msg := "corpus error: " + e.Msg
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorpusError) Unwrap() error { return e.Err }

// ArtifactMismatchError is returned when a vectorizer and a model do not belong together
type ArtifactMismatchError struct {
	Msg string
}

func (e *ArtifactMismatchError) Error() string {
	return "artifact mismatch: " + e.Msg
}

// Mismatchf builds an ArtifactMismatchError from a format string
func Mismatchf(format string, args ...any) error {
	return &ArtifactMismatchError{Msg: fmt.Sprintf(format, args...)}
}

// ValidationError rejects a request before it reaches the classifier.
// Reason is safe to show to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// PredictionError wraps any unexpected failure while scoring a text.
// Only a generic message is shown to the caller.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed: %v", e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }
