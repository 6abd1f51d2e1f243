package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"
)

// ErrorKind classifies why a write to the store failed.
type ErrorKind string

const (
	// ErrQuotaExceeded means the store ran out of capacity.
	ErrQuotaExceeded ErrorKind = "quota_exceeded"
	// ErrDisabled means the store is blocked or unavailable (permissions,
	// read-only filesystem).
	ErrDisabled ErrorKind = "disabled"
	// ErrUnknown covers everything else.
	ErrUnknown ErrorKind = "unknown"
)

// Error is the only error type the gateway write path produces.
type Error struct {
	Kind ErrorKind
	Key  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s writing %q: %v", e.Kind, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Advice returns an actionable message for the user, per error kind.
func (e *Error) Advice() string {
	switch e.Kind {
	case ErrQuotaExceeded:
		return "Storage is full. Export your data as a backup, then free up disk space."
	case ErrDisabled:
		return "Storage is not writable. Check file permissions on the store path."
	default:
		return "Saving failed. Your data is unchanged; export a backup and retry."
	}
}

// AsError extracts a *Error from err, or wraps it as unknown.
func AsError(err error, key string) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return classify(err, key)
}

// classify maps a raw write error onto the gateway taxonomy.
func classify(err error, key string) *Error {
	kind := ErrUnknown
	switch {
	case errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT):
		kind = ErrQuotaExceeded
	case errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EROFS) || errors.Is(err, syscall.EACCES):
		kind = ErrDisabled
	case err != nil && isSQLiteFull(err):
		kind = ErrQuotaExceeded
	}
	return &Error{Kind: kind, Key: key, Err: err}
}

func isSQLiteFull(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database or disk is full") ||
		strings.Contains(msg, "disk is full")
}
