package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Privilege errors
	ErrNotRoot    ErrorCode = "NOT_ROOT"
	ErrNoSudoUser ErrorCode = "NO_SUDO_USER"

	// Step errors
	ErrStepProbe   ErrorCode = "STEP_PROBE"
	ErrStepRun     ErrorCode = "STEP_RUN"
	ErrStepUnknown ErrorCode = "STEP_UNKNOWN"

	// Command execution errors
	ErrCommandStart   ErrorCode = "COMMAND_START"
	ErrCommandExit    ErrorCode = "COMMAND_EXIT"
	ErrCommandMissing ErrorCode = "COMMAND_MISSING"

	// Package manager errors
	ErrAptSource  ErrorCode = "APT_SOURCE"
	ErrAptInstall ErrorCode = "APT_INSTALL"

	// Repository errors
	ErrGitClone ErrorCode = "GIT_CLONE"
	ErrChown    ErrorCode = "CHOWN"

	// Environment file errors
	ErrEnvHelperMissing ErrorCode = "ENV_HELPER_MISSING"
	ErrEnvParse         ErrorCode = "ENV_PARSE"
	ErrEnvWrite         ErrorCode = "ENV_WRITE"

	// Compose errors
	ErrComposeBuild   ErrorCode = "COMPOSE_BUILD"
	ErrComposeUp      ErrorCode = "COMPOSE_UP"
	ErrComposeDown    ErrorCode = "COMPOSE_DOWN"
	ErrComposeExec    ErrorCode = "COMPOSE_EXEC"
	ErrComposeRestart ErrorCode = "COMPOSE_RESTART"

	// Readiness errors
	ErrNotReady ErrorCode = "NOT_READY"

	// GeoServer errors
	ErrUsersXML ErrorCode = "USERS_XML"

	// State errors
	ErrStateAccess ErrorCode = "STATE_ACCESS"
	ErrStateWrite  ErrorCode = "STATE_WRITE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// GeostackError represents a structured error with code and details
type GeostackError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *GeostackError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *GeostackError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *GeostackError) Is(target error) bool {
	var targetErr *GeostackError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new GeostackError with the given code and message
func New(code ErrorCode, message string) *GeostackError {
	return &GeostackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new GeostackError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *GeostackError {
	return &GeostackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a GeostackError
func Wrap(err error, code ErrorCode, message string) *GeostackError {
	if err == nil {
		return nil
	}
	return &GeostackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *GeostackError {
	if err == nil {
		return nil
	}
	return &GeostackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *GeostackError) WithDetail(key string, value interface{}) *GeostackError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var gsErr *GeostackError
	if errors.As(err, &gsErr) {
		return gsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a GeostackError
func GetErrorCode(err error) ErrorCode {
	var gsErr *GeostackError
	if errors.As(err, &gsErr) {
		return gsErr.Code
	}
	return ErrUnknown
}
