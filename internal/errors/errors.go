package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/focusflow/internal/logger"
)

var (
	// ErrInvalidDuration is returned for a non-positive timer or session duration
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidTransition is returned when a timer operation is not valid for its current phase
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrOutOfRange is returned for energy or mood values outside their bounds
	ErrOutOfRange = errors.New("value out of range")
	// ErrNotFound is returned when a record is absent from the local cache or the store
	ErrNotFound = errors.New("not found")
	// ErrRemoteFailure wraps any error returned by the store
	ErrRemoteFailure = errors.New("remote store failure")
	// ErrValidation is returned for malformed input such as an empty title
	ErrValidation = errors.New("validation failed")
	// ErrNoIdentity is returned when an operation needs a signed-in user
	ErrNoIdentity = errors.New("no signed-in user")
)

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

// Remote wraps a store error so callers can match it with ErrRemoteFailure.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrRemoteFailure, op, err)
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
