// Package errors provides custom error types for the gapscan system.
// These errors enable programmatic error checking and keep the distinction
// between contract violations (caller bugs, fail fast, never retried) and
// runtime failures (storage reads) visible to callers.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// Alias for the standard library errors.Is.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// Alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the gapscan system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrContract indicates a caller-side contract violation, such as a nil
	// asset handle or an internally inconsistent value object. Contract
	// errors abort the whole scan and are never retried.
	ErrContract = errors.New("contract violation")

	// ErrStorage indicates a failure reading one of the tenant-scoped
	// context queries from the storage layer
	ErrStorage = errors.New("storage failure")

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
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure in a value-object
// constructor or a field catalog entry
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

// ContractError represents a precondition violation by the caller.
// These are bugs, not runtime conditions: the scan aborts immediately,
// before any lookup, rather than returning a partially computed result.
type ContractError struct {
	Op      string
	Message string
}

// Error implements the error interface
func (e *ContractError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("contract violation: %s", e.Message)
}

// Is implements errors.Is support
func (e *ContractError) Is(target error) bool {
	return target == ErrContract
}

// NewContractError creates a new ContractError
func NewContractError(op, message string) *ContractError {
	return &ContractError{Op: op, Message: message}
}

// QueryError represents a failure in one of the tenant-scoped context reads
type QueryError struct {
	Query   string // "linked_applications", "related_assets", "enrichments"
	AssetID string
	Err     error
}

// Error implements the error interface
func (e *QueryError) Error() string {
	if e.AssetID != "" {
		return fmt.Sprintf("query %s failed for asset %s: %v", e.Query, e.AssetID, e.Err)
	}
	return fmt.Sprintf("query %s failed: %v", e.Query, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *QueryError) Is(target error) bool {
	return target == ErrStorage
}

// NewQueryError creates a new QueryError
func NewQueryError(query, assetID string, err error) *QueryError {
	return &QueryError{Query: query, AssetID: assetID, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "json"
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
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
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
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsContract checks if an error is a contract violation
func IsContract(err error) bool {
	return errors.Is(err, ErrContract)
}

// IsStorage checks if an error is a storage read failure
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapQuery wraps an error as a QueryError
func WrapQuery(query, assetID string, err error) error {
	if err == nil {
		return nil
	}
	return NewQueryError(query, assetID, err)
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
