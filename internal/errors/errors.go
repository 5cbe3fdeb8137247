package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrPermission     = errors.New("permission denied")
	ErrTransport      = errors.New("transport failure")
	ErrConfiguration  = errors.New("configuration error")
	ErrNotInitialized = errors.New("not initialized")
	ErrEmptyPayload   = errors.New("empty payload")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "card", "board", "member"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError indicates a value that a field cannot accept.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// PermissionError indicates a write against a detached session or a read-only entity.
type PermissionError struct {
	Entity string
	Reason string
}

func (e *PermissionError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("cannot write %s: %s", e.Entity, e.Reason)
	}
	return "cannot write: " + e.Reason
}

func (e *PermissionError) Unwrap() error {
	return ErrPermission
}

// TransportError wraps a network or protocol failure reported by a transport.
// StatusCode is zero when no response was received.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Method, e.Path)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is lets errors.Is match both ErrTransport and the wrapped cause.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ConfigurationError is a programming error: something that is fixed at build
// time (a contract registration, an endpoint template) is missing or wrong.
type ConfigurationError struct {
	Subject string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Subject, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NotInitializedError indicates trellis has no credentials configured.
type NotInitializedError struct {
	Path string
}

func (e *NotInitializedError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("trellis not configured in %s (run 'trellis login')", e.Path)
	}
	return "trellis not configured (run 'trellis login')"
}

func (e *NotInitializedError) Unwrap() error {
	return ErrNotInitialized
}

// Helper constructors for common cases

func EntityNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Detached(entity string) error {
	return &PermissionError{Entity: entity, Reason: "no service session attached"}
}

func ReadOnly(entity string) error {
	return &PermissionError{Entity: entity, Reason: "entity is read-only"}
}

func UnregisteredContract(kind string) error {
	return &ConfigurationError{Subject: kind, Message: "no payload factory registered"}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPermissionError checks if an error is a permission error.
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrPermission)
}

// IsTransportError checks if an error came from the transport.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsConfigurationError checks if an error is a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
