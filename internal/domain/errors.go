package domain

import "errors"

var (
	// ErrValidation indicates a missing or empty upload, or a malformed request
	ErrValidation = errors.New("invalid request")
	// ErrUnsupportedType indicates an upload with a non-PDF media type
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEncoding indicates a failure while buffering or encoding an upload
	ErrEncoding = errors.New("encoding failed")
	// ErrOperationFailed indicates a failed AI operation (network, provider, or schema mismatch)
	ErrOperationFailed = errors.New("operation failed")
	// ErrNotFound indicates an unknown session
	ErrNotFound = errors.New("session not found")
	// ErrNoDocument indicates an operation invoked without an active document
	ErrNoDocument = errors.New("no active document")
	// ErrBusy indicates a call of the same kind already in flight
	ErrBusy = errors.New("operation already in progress")
)
