package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for better error classification and handling

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypePermission     ErrorType = "permission"
	ErrorTypeIO             ErrorType = "io"
	ErrorTypeInternal       ErrorType = "internal"
	ErrorTypePathResolution ErrorType = "path_resolution"
	ErrorTypeLogFile        ErrorType = "log_file"
	ErrorTypeSpawn          ErrorType = "spawn"
	ErrorTypeKill           ErrorType = "kill"
	ErrorTypeConfigParse    ErrorType = "config_parse"
	ErrorTypeConfigWrite    ErrorType = "config_write"
)

// DomainError represents a structured error with type and context
type DomainError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *DomainError) Is(target error) bool {
	if other, ok := target.(*DomainError); ok {
		return e.Type == other.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errorType ErrorType, message string, cause error) *DomainError {
	return &DomainError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

func NewValidationError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, cause)
}

func NewNotFoundError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeNotFound, message, cause)
}

func NewConflictError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeConflict, message, cause)
}

func NewPermissionError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypePermission, message, cause)
}

func NewIOError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeIO, message, cause)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeInternal, message, cause)
}

// Supervisor errors
func NewPathResolutionError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypePathResolution, message, cause)
}

func NewLogFileError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeLogFile, message, cause)
}

func NewSpawnError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeSpawn, message, cause)
}

func NewKillError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeKill, message, cause)
}

// Config store errors
func NewConfigParseError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeConfigParse, message, cause)
}

func NewConfigWriteError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeConfigWrite, message, cause)
}

func isType(err error, errorType ErrorType) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == errorType
}

// Error checking helpers
func IsValidationError(err error) bool     { return isType(err, ErrorTypeValidation) }
func IsNotFoundError(err error) bool       { return isType(err, ErrorTypeNotFound) }
func IsConflictError(err error) bool       { return isType(err, ErrorTypeConflict) }
func IsPermissionError(err error) bool     { return isType(err, ErrorTypePermission) }
func IsIOError(err error) bool             { return isType(err, ErrorTypeIO) }
func IsInternalError(err error) bool       { return isType(err, ErrorTypeInternal) }
func IsPathResolutionError(err error) bool { return isType(err, ErrorTypePathResolution) }
func IsLogFileError(err error) bool        { return isType(err, ErrorTypeLogFile) }
func IsSpawnError(err error) bool          { return isType(err, ErrorTypeSpawn) }
func IsKillError(err error) bool           { return isType(err, ErrorTypeKill) }
func IsConfigParseError(err error) bool    { return isType(err, ErrorTypeConfigParse) }
func IsConfigWriteError(err error) bool    { return isType(err, ErrorTypeConfigWrite) }

// LaunchError identifies the worker spec whose launch failed.
type LaunchError struct {
	Index  int
	ID     string
	Binary string
	Cause  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch worker %q (index %d, binary %s): %v", e.ID, e.Index, e.Binary, e.Cause)
}

func (e *LaunchError) Unwrap() error {
	return e.Cause
}

// AsLaunchError extracts the first LaunchError found in the error chain
func AsLaunchError(err error) (*LaunchError, bool) {
	var launchErr *LaunchError
	if errors.As(err, &launchErr) {
		return launchErr, true
	}
	var collection *ErrorCollection
	if errors.As(err, &collection) {
		for _, e := range collection.Errors {
			if errors.As(e, &launchErr) {
				return launchErr, true
			}
		}
	}
	return nil, false
}

// Error aggregation for bulk operations
type ErrorCollection struct {
	Errors []error
}

func (e *ErrorCollection) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	messages := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("%d errors occurred: %s", len(e.Errors), strings.Join(messages, "; "))
}

func (e *ErrorCollection) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *ErrorCollection) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ErrorCollection) ToError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// NewErrorCollection creates a new error collection
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		Errors: make([]error, 0),
	}
}
