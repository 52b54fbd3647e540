// Package secrets stores mailbox app passwords in the OS keychain.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the tracker's secrets in the OS keychain
const KeyringService = "job-tracker"

// ErrPasswordNotFound is returned when the keychain holds no password for an account
var ErrPasswordNotFound = errors.New("IMAP password not found (set it with `job-tracker secret set` or via env)")

// IMAPKeyringAccount names the keychain entry for a mailbox login
func IMAPKeyringAccount(username, host string) string {
	return fmt.Sprintf("job-tracker:imap:%s@%s", username, host)
}

// GetIMAPPassword reads the password for account
func GetIMAPPassword(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && strings.TrimSpace(pw) == "") {
		return "", ErrPasswordNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keychain: %w", err)
	}
	return pw, nil
}

// SetIMAPPassword stores password for account
func SetIMAPPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

// DeleteIMAPPassword removes the password for account
func DeleteIMAPPassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if err := keyring.Delete(KeyringService, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrPasswordNotFound
		}
		return err
	}
	return nil
}
