package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by errors that report a registry resource which does not exist
var ErrNotFound = errors.New("not found")

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrTransport ErrorType = iota
	ErrParse
	ErrMissingVersion
	ErrArchive
	ErrFileOp
	ErrInvalidConfig
	ErrSigning
	ErrMerge
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrTransport:
		return "Transport"
	case ErrParse:
		return "Parse"
	case ErrMissingVersion:
		return "MissingVersion"
	case ErrArchive:
		return "Archive"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrSigning:
		return "Signing"
	case ErrMerge:
		return "Merge"
	default:
		return "Unknown"
	}
}

// SyncError represents an error during a catalog sync cycle
type SyncError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is reports a missing version as ErrNotFound
func (e *SyncError) Is(target error) bool {
	return target == ErrNotFound && e.Type == ErrMissingVersion
}

// IsMissingVersion checks if err reports a version the registry does not know
func IsMissingVersion(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ErrorTypeOf returns the type of the first SyncError in err's chain
func ErrorTypeOf(err error) (ErrorType, bool) {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Type, true
	}
	return 0, false
}
