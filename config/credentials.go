package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the service name used in the system keyring.
	keyringService = "engage"
	// keyringDBUser is the account name under which the database password
	// is stored.
	keyringDBUser = "db-password"
)

// ErrNoStoredPassword indicates no database password is stored in the keyring.
var ErrNoStoredPassword = errors.New("no database password stored in keyring")

// DBPasswordFromKeyring retrieves the database password from the system
// keyring (macOS Keychain, Windows Credential Manager, Linux Secret Service).
func DBPasswordFromKeyring() (string, error) {
	pw, err := keyring.Get(keyringService, keyringDBUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoStoredPassword
	}
	if err != nil {
		return "", fmt.Errorf("reading keyring: %w", err)
	}
	return pw, nil
}

// StoreDBPassword saves the database password in the system keyring.
func StoreDBPassword(password string) error {
	if err := keyring.Set(keyringService, keyringDBUser, password); err != nil {
		return fmt.Errorf("writing keyring: %w", err)
	}
	return nil
}

// DeleteDBPassword removes the stored database password, if any.
func DeleteDBPassword() error {
	err := keyring.Delete(keyringService, keyringDBUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting keyring entry: %w", err)
	}
	return nil
}
