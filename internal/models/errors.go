package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the closed error taxonomy. Callers match these with
// errors.Is rather than inspecting message text.
var (
	// ErrValidation groups caller mistakes: bad session id, empty
	// question, processing before any upload. Never retried.
	ErrValidation = errors.New("validation failed")

	ErrSessionNotFound = errors.New("session not found")
	ErrIndexNotFound   = errors.New("index not found")

	// ErrEmptyInput means extraction yielded no text at all; ErrNoChunks
	// means the chunker produced nothing to index. Both distinguish "bad
	// input" from a system failure.
	ErrEmptyInput = errors.New("no extractable text")
	ErrNoChunks   = errors.New("no chunks to index")

	ErrNoFiles       = fmt.Errorf("%w: no files uploaded for this session", ErrValidation)
	ErrEmptyQuestion = fmt.Errorf("%w: question is required", ErrValidation)
	ErrNotProcessed  = fmt.Errorf("%w: documents have not been processed", ErrValidation)
)

// ExtractionError identifies the document that could not be read.
type ExtractionError struct {
	File string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("error reading %s: %v", e.File, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// RateLimitError is the only error class subject to automatic retry. Once
// attempts are exhausted it carries remediation guidance for the caller.
type RateLimitError struct {
	Attempts    int
	Remediation string
	Err         error
}

func (e *RateLimitError) Error() string {
	if e.Remediation != "" {
		return fmt.Sprintf("rate limit exceeded after %d attempts: %s", e.Attempts, e.Remediation)
	}
	return fmt.Sprintf("rate limit exceeded after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// RateLimited marks the error as a structured rate-limit signal.
func (e *RateLimitError) RateLimited() bool { return true }
