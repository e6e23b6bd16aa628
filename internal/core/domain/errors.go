package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file whose extension or content
	// does not match a known file type. Per-file, non-fatal.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrCorruptInput indicates extraction failed on malformed content.
	// Per-file, non-fatal: the file is skipped and reported.
	ErrCorruptInput = errors.New("corrupt input")

	// ErrEmptyIndex indicates a vector search against an index with
	// no entries. Aborts the current query only.
	ErrEmptyIndex = errors.New("vector index is empty")

	// ErrDimensionMismatch indicates a query vector whose dimensionality
	// disagrees with the index. Should not occur while a single embedder
	// is used for indexing and querying.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNoDocumentsIndexed indicates a search against an empty
	// collection. Surfaced to the user as "add documents first".
	ErrNoDocumentsIndexed = errors.New("no documents indexed")
)

// GenerationErrorKind classifies failures of the external generation
// capability. The kind decides retry behaviour.
type GenerationErrorKind int

const (
	// GenerationRateLimited indicates the provider rejected the call
	// for rate-limit reasons. Retryable with backoff.
	GenerationRateLimited GenerationErrorKind = iota

	// GenerationTimeout indicates the call exceeded its deadline.
	// Retryable with backoff.
	GenerationTimeout

	// GenerationService indicates a non-retryable provider failure.
	GenerationService
)

// String returns a short label for the kind.
func (k GenerationErrorKind) String() string {
	switch k {
	case GenerationRateLimited:
		return "rate limited"
	case GenerationTimeout:
		return "timeout"
	default:
		return "service error"
	}
}

// GenerationError wraps a failure of the external generation capability
// with a classified kind.
type GenerationError struct {
	Kind GenerationErrorKind
	Err  error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying provider error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure warrants a bounded retry.
func (e *GenerationError) Retryable() bool {
	return e.Kind == GenerationRateLimited || e.Kind == GenerationTimeout
}

// NewGenerationError builds a classified generation error.
func NewGenerationError(kind GenerationErrorKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}

// AsGenerationError unwraps err into a GenerationError if possible.
func AsGenerationError(err error) (*GenerationError, bool) {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
