// Package domain contains core types for the feed refresh pipeline.
package domain

import "errors"

// Payload and message errors
var (
	// ErrMalformedPayload indicates the request body matches neither the queue
	// envelope nor a direct batch request.
	ErrMalformedPayload = errors.New("malformed queue payload")

	// ErrInvalidMessage indicates a single queued message failed validation
	ErrInvalidMessage = errors.New("invalid batch message")
)

// Status store errors
var (
	// ErrStatusNotFound indicates no status record exists (never written or expired)
	ErrStatusNotFound = errors.New("batch status not found")

	// ErrStatusAlreadyWritten indicates a terminal status already exists for the batch
	ErrStatusAlreadyWritten = errors.New("batch status already written")
)

// Refresh errors
var (
	// ErrDelegationFailed indicates the external refresh worker rejected or failed the refresh
	ErrDelegationFailed = errors.New("refresh delegation failed")
)
