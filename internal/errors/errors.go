// Package errors provides standardized domain errors with codes for the cache core.
//
// Usage:
//
//	// In services - return typed errors
//	if id == "" {
//	    return errors.InvalidArgument("track id is required")
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrNetwork) {
//	    // fall back to cache
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the core.
const (
	CodeNotFound        Code = "NOT_FOUND"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNetwork         Code = "NETWORK"
	CodeCacheCorrupt    Code = "CACHE_CORRUPT"
	CodeStorageFull     Code = "STORAGE_FULL"
	CodeDownloadFailed  Code = "DOWNLOAD_FAILED"
	CodeEmptyFile       Code = "EMPTY_FILE"
	CodeInternal        Code = "INTERNAL"
)

// Error is a domain error with a code, message, and optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrNetwork         = &Error{Code: CodeNetwork, Message: "network failure"}
	ErrCacheCorrupt    = &Error{Code: CodeCacheCorrupt, Message: "cache corrupt"}
	ErrStorageFull     = &Error{Code: CodeStorageFull, Message: "storage full"}
	ErrDownloadFailed  = &Error{Code: CodeDownloadFailed, Message: "download failed"}
	ErrEmptyFile       = &Error{Code: CodeEmptyFile, Message: "empty file"}
	ErrInternal        = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for each error type.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// InvalidArgument creates a validation error.
func InvalidArgument(msg string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: msg}
}

// Network creates a transient network error.
func Network(msg string) *Error {
	return &Error{Code: CodeNetwork, Message: msg}
}

// CacheCorrupt creates a cache corruption error.
func CacheCorrupt(msg string) *Error {
	return &Error{Code: CodeCacheCorrupt, Message: msg}
}

// StorageFull creates a storage quota error.
func StorageFull(msg string) *Error {
	return &Error{Code: CodeStorageFull, Message: msg}
}

// DownloadFailed creates a download validation error.
func DownloadFailed(msg string) *Error {
	return &Error{Code: CodeDownloadFailed, Message: msg}
}

// EmptyFile creates an empty download error.
func EmptyFile(msg string) *Error {
	return &Error{Code: CodeEmptyFile, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
// Returns nil if err is nil.
func Wrap(err error, code Code, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, cause: err}
}

// WrapNetwork wraps an error as a transient network error.
func WrapNetwork(err error, msg string) *Error {
	return Wrap(err, CodeNetwork, msg)
}

// WrapInternal wraps an error as an internal error.
func WrapInternal(err error, msg string) *Error {
	return Wrap(err, CodeInternal, msg)
}
