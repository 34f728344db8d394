package backend

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/aipdev/aip/internal/tool"
)

// KeychainService is the secure-store service name Claude Code stores its
// OAuth credentials under. It must match the tool's own entry exactly.
const KeychainService = "Claude Code-credentials"

// serviceName returns the secure-store service, honoring the
// AIP_KEYRING_SERVICE override so tests never touch the real entry.
func serviceName() string {
	if name := os.Getenv("AIP_KEYRING_SERVICE"); name != "" {
		return name
	}
	return KeychainService
}

// accountName returns the secure-store account for the current user.
func accountName() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	if user := os.Getenv("LOGNAME"); user != "" {
		return user
	}
	return "default"
}

// KeychainBackend serves Claude Code: the active credential lives in the OS
// secure credential store, profiles and marker on disk.
type KeychainBackend struct {
	fileProfiles
}

// NewKeychain creates the Claude Code backend.
func NewKeychain() *KeychainBackend {
	return &KeychainBackend{fileProfiles{t: tool.Claude, credFile: "credentials.json"}}
}

// ReadActive reads the credential from the secure store.
func (b *KeychainBackend) ReadActive() ([]byte, error) {
	value, err := keyring.Get(serviceName(), accountName())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("active credential for %s: %w", b.t, ErrNotFound)
		}
		return nil, opError("reading secure store", b.t, err)
	}
	return []byte(value), nil
}

// WriteActive replaces the credential in the secure store.
func (b *KeychainBackend) WriteActive(data []byte) error {
	if err := keyring.Set(serviceName(), accountName(), string(data)); err != nil {
		return opError("writing secure store", b.t, err)
	}
	return nil
}
