// Package errors provides custom error types for the csutil system.
// These errors enable programmatic error checking across the loading,
// matching and rewriting stages, and give the CLI one-line diagnostics.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the csutil system
var (
	// ErrNotFound indicates that a requested file or field was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that an output already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrIntegrity indicates that a dataset invariant was violated
	ErrIntegrity = errors.New("integrity violation")

	// ErrSchema indicates that a dataset schema lacks a required field
	ErrSchema = errors.New("schema mismatch")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AlreadyExistsError reports an output path that would be overwritten.
type AlreadyExistsError struct {
	Resource string
	Path     string
	Hint     string
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	msg := fmt.Sprintf("%s %s already exists", e.Resource, e.Path)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// Is implements errors.Is support
func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(resource, path, hint string) *AlreadyExistsError {
	return &AlreadyExistsError{Resource: resource, Path: path, Hint: hint}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// IntegrityError reports a violated dataset invariant. Stage names the
// pipeline step that detected it and Key, when set, the offending record key.
type IntegrityError struct {
	Stage   string
	Key     string
	Message string
}

// Error implements the error interface
func (e *IntegrityError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("integrity violation during %s at %s: %s", e.Stage, e.Key, e.Message)
	}
	return fmt.Sprintf("integrity violation during %s: %s", e.Stage, e.Message)
}

// Is implements errors.Is support
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// NewIntegrityError creates a new IntegrityError
func NewIntegrityError(stage, key, message string) *IntegrityError {
	return &IntegrityError{Stage: stage, Key: key, Message: message}
}

// SchemaError reports a field missing from (or mistyped in) a dataset schema.
type SchemaError struct {
	Dataset   string
	Field     string
	Message   string
	Available []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("field %s in %s dataset: %s", e.Field, e.Dataset, e.Message)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (available fields: %v)", e.Available)
	}
	return msg
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NewSchemaError creates a new SchemaError
func NewSchemaError(dataset, field, message string) *SchemaError {
	return &SchemaError{Dataset: dataset, Field: field, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "npy", "yaml", "dtype", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsIntegrityError checks if an error is a dataset integrity violation
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrIntegrity)
}

// IsSchemaError checks if an error is a schema mismatch
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapCanceled converts a context error into ErrCanceled while keeping the cause.
func WrapCanceled(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, ErrCanceled, err)
}
