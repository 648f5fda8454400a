// Package keyring stores focusflow secrets and the signed-in user in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/julianstephens/focusflow/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when the requested entry is not in the keyring
	ErrNotFound = errors.New("entry not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetConnectionString retrieves the database connection string from the OS keyring.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return set(constants.DefaultKeyringUser, connStr)
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	return del(constants.DefaultKeyringUser)
}

// GetCurrentUser returns the id of the signed-in user.
// Returns ErrNotFound when nobody is signed in.
func GetCurrentUser() (string, error) {
	return get(constants.KeyringIdentityUser)
}

// SetCurrentUser records userID as the signed-in user.
func SetCurrentUser(userID string) error {
	if userID == "" {
		return errors.New("user id cannot be empty")
	}
	return set(constants.KeyringIdentityUser, userID)
}

// DeleteCurrentUser signs the current user out. Signing out when nobody is
// signed in returns ErrNotFound.
func DeleteCurrentUser() error {
	return del(constants.KeyringIdentityUser)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func get(entry string) (string, error) {
	value, err := keyring.Get(constants.AppName, entry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func set(entry, value string) error {
	if err := keyring.Set(constants.AppName, entry, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", entry, err)
	}
	return nil
}

func del(entry string) error {
	if err := keyring.Delete(constants.AppName, entry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", entry, err)
	}
	return nil
}
