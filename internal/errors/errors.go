package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/nudgelabs/nudge-core/internal/logger"
)

// Sentinel errors for the core taxonomy. Callers match them with errors.Is.
var (
	// ErrNotFound means an operation referenced a record id that does not
	// exist. Never retried automatically.
	ErrNotFound = errors.New("record not found")

	// ErrValidation means input was rejected before any state mutation.
	ErrValidation = errors.New("validation failed")

	// ErrRemoteUnavailable means the remote record store could not be
	// reached; the current sync attempt aborts without advancing its
	// checkpoint.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrStorage means local persistence I/O failed. The operation had no
	// effect and the caller may retry.
	ErrStorage = errors.New("storage failure")
)

// Storage wraps a driver error as ErrStorage, keeping the cause in the chain.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// NotFound wraps ErrNotFound with the record kind and id.
func NotFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

// Validation wraps ErrValidation with a reason.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

// Is re-exports errors.Is so callers of this package do not need both
// error packages imported.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
