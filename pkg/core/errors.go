package core

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	// ErrStorageUnavailable means the data directory or a store file cannot be
	// created or opened. Fatal at startup.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrMalformedRecord means a single record file could not be decoded.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrNameCollision means an add or rename would duplicate a persistent name.
	ErrNameCollision = errors.New("name collision")
	// ErrWriteFailure means a save or config flush did not reach the disk.
	ErrWriteFailure  = errors.New("write failure")
	ErrNotFound      = errors.New("record not found")
	ErrInvalidName   = errors.New("record name cannot be empty")
	ErrInvalidKey    = errors.New("config key cannot be empty")
	ErrNotPersistent = errors.New("record is informational and cannot be saved")
	ErrReadOnly      = errors.New("record is read-only")
)

// ItemError ties a failure to the record name or file it belongs to.
type ItemError struct {
	ID  string
	Err error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.ID, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// BatchError reports every failed item of a batch operation.
// The operation still attempted all items.
type BatchError struct {
	Op       string
	Failures []ItemError
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%s: %d failed: %s", e.Op, len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Failed returns the IDs of the failed items, in attempt order.
func (e *BatchError) Failed() []string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ID)
	}
	return ids
}
