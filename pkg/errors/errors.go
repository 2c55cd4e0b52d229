// Package errors provides custom error types for the luga system.
// These errors let callers tell user-actionable upload problems apart from
// internal failures and report them next to the upload that caused them.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are the standard library helpers, re-exported so callers need
// a single errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the luga system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnreadableFile indicates that uploaded bytes are not a readable table
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrInvalidFileType indicates that the declared media type is not accepted
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrTypeMismatch indicates a non-numeric value in a quantity column
	ErrTypeMismatch = errors.New("type mismatch")
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

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
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
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// UnreadableFileError is returned when an upload cannot be parsed by any
// supported reader. Both the workbook and the delimited-text failure are
// kept so callers can tell "not a spreadsheet" from "not a valid CSV".
type UnreadableFileError struct {
	Name         string
	WorkbookErr  error
	DelimitedErr error
}

// Error implements the error interface
func (e *UnreadableFileError) Error() string {
	var causes []string
	if e.WorkbookErr != nil {
		causes = append(causes, "workbook: "+e.WorkbookErr.Error())
	}
	if e.DelimitedErr != nil {
		causes = append(causes, "delimited: "+e.DelimitedErr.Error())
	}
	msg := "cannot read file"
	if e.Name != "" {
		msg = fmt.Sprintf("cannot read file %s", e.Name)
	}
	if len(causes) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (%s)", msg, strings.Join(causes, "; "))
}

// Unwrap exposes both reader failures to errors.Is and errors.As.
func (e *UnreadableFileError) Unwrap() []error {
	var errs []error
	if e.WorkbookErr != nil {
		errs = append(errs, e.WorkbookErr)
	}
	if e.DelimitedErr != nil {
		errs = append(errs, e.DelimitedErr)
	}
	return errs
}

// Is implements errors.Is support
func (e *UnreadableFileError) Is(target error) bool {
	return target == ErrUnreadableFile
}

// NewUnreadableFileError creates a new UnreadableFileError
func NewUnreadableFileError(name string, workbookErr, delimitedErr error) *UnreadableFileError {
	return &UnreadableFileError{
		Name:         name,
		WorkbookErr:  workbookErr,
		DelimitedErr: delimitedErr,
	}
}

// InvalidFileTypeError is returned when the declared media type of an
// upload is outside the accepted set.
type InvalidFileTypeError struct {
	Name      string
	MediaType string
	Accepted  []string
}

// Error implements the error interface
func (e *InvalidFileTypeError) Error() string {
	got := e.MediaType
	if got == "" {
		got = "none"
	}
	if e.Name != "" {
		return fmt.Sprintf("file %s must be an Excel or CSV file, got media type %s", e.Name, got)
	}
	return fmt.Sprintf("file must be an Excel or CSV file, got media type %s", got)
}

// Is implements errors.Is support
func (e *InvalidFileTypeError) Is(target error) bool {
	return target == ErrInvalidFileType
}

// NewInvalidFileTypeError creates a new InvalidFileTypeError
func NewInvalidFileTypeError(name, mediaType string, accepted []string) *InvalidFileTypeError {
	return &InvalidFileTypeError{
		Name:      name,
		MediaType: mediaType,
		Accepted:  accepted,
	}
}

// TypeMismatchError is returned when a quantity cell is not numeric.
// Row is 1-based and counts data rows only.
type TypeMismatchError struct {
	Table string
	Row   int
	ID    string
	Value string
}

// Error implements the error interface
func (e *TypeMismatchError) Error() string {
	where := fmt.Sprintf("row %d", e.Row)
	if e.ID != "" {
		where = fmt.Sprintf("row %d (id %s)", e.Row, e.ID)
	}
	if e.Table != "" {
		return fmt.Sprintf("non-numeric quantity %q in %s at %s", e.Value, e.Table, where)
	}
	return fmt.Sprintf("non-numeric quantity %q at %s", e.Value, where)
}

// Is implements errors.Is support
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// NewTypeMismatchError creates a new TypeMismatchError
func NewTypeMismatchError(table string, row int, id, value string) *TypeMismatchError {
	return &TypeMismatchError{
		Table: table,
		Row:   row,
		ID:    id,
		Value: value,
	}
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

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnreadableFile checks if an error is an unreadable file error
func IsUnreadableFile(err error) bool {
	return errors.Is(err, ErrUnreadableFile)
}

// IsInvalidFileType checks if an error is an invalid file type error
func IsInvalidFileType(err error) bool {
	return errors.Is(err, ErrInvalidFileType)
}

// IsTypeMismatch checks if an error is a type mismatch error
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// UserActionable reports whether the user can fix err by correcting or
// re-uploading a file. None of these errors are retried automatically.
func UserActionable(err error) bool {
	return IsUnreadableFile(err) || IsInvalidFileType(err) || IsTypeMismatch(err) || IsValidationError(err)
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
