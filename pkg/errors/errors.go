// Package errors defines the typed errors shared across the mathsprint services.
package errors

import "fmt"

// ValidationError: malformed or out-of-range input, rejected before touching the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error field=%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError: a reference to a record that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found id=%s", e.Resource, e.ID)
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// PersistenceError: the store was unreachable or a write failed.
// Surfaced to the caller as-is; retry policy belongs to the transport layer.
type PersistenceError struct {
	Operation string
	Err       error
}

func (e PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("persistence error operation=%s", e.Operation)
	}
	return fmt.Sprintf("persistence error operation=%s: %v", e.Operation, e.Err)
}

func (e PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError wraps a store failure.
func NewPersistenceError(operation string, cause error) *PersistenceError {
	return &PersistenceError{Operation: operation, Err: cause}
}

// UnauthorizedError: a request without a valid authenticated owner.
type UnauthorizedError struct {
	Reason string
}

func (e UnauthorizedError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason}
}

// CacheError: a cache read/write failure (non-fatal for most call sites).
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

func (e CacheError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cache error operation=%s key=%s", e.Operation, e.Key)
	}
	return fmt.Sprintf("cache error operation=%s key=%s: %v", e.Operation, e.Key, e.Err)
}

func (e CacheError) Unwrap() error { return e.Err }

// NewCacheError creates a cache error.
func NewCacheError(operation, key string, cause error) *CacheError {
	return &CacheError{Operation: operation, Key: key, Err: cause}
}
