package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures. Recoverability is part of the
// contract: loaders skip unsupported files, fail per-file on extraction
// errors, and only a malformed seed file aborts an entire run.
var (
	// ErrUnsupportedFormat indicates a file with an unrecognised format.
	// Recoverable: the file is skipped with a warning.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtraction indicates a file that could not be parsed.
	// Fatal for that file's contribution; the run continues for others.
	ErrExtraction = errors.New("document extraction failed")

	// ErrSchema indicates a malformed seed specification file.
	// Fatal: grounding correctness depends on the seed file wholesale,
	// so the whole run aborts.
	ErrSchema = errors.New("seed file schema violation")

	// ErrInvalidInput indicates a nil or otherwise unusable argument.
	ErrInvalidInput = errors.New("invalid input")
)

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	// Field is the configuration key, in its external snake_case form.
	Field string

	// Reason describes the violation.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// SchemaError reports a seed-file schema violation with the path of the
// offending field (e.g. "seed_examples.2.questions_and_answers").
type SchemaError struct {
	// Field is the dotted path of the violating field.
	Field string

	// Reason describes the violation.
	Reason string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrSchema, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrSchema, e.Field, e.Reason)
}

// Unwrap makes SchemaError match ErrSchema with errors.Is.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}
