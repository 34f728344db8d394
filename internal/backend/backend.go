// Package backend abstracts the two credential storage mechanisms behind one
// interface.
//
// Claude Code keeps its active credential in the OS secure credential store;
// Codex CLI keeps its own in a plain auth.json file. Saved profiles and the
// _current marker are plain files under <tool home>/profiles/ for both, so
// the two backends share the file-side implementation and differ only in how
// the active credential is reached.
package backend

import (
	"errors"
	"fmt"

	"github.com/aipdev/aip/internal/tool"
)

// ErrNotFound is returned when a named profile, or the active credential,
// does not exist.
var ErrNotFound = errors.New("not found")

// Backend is the capability set a tool's credential storage must provide.
//
// The active credential is owned by the tool CLI itself and can change
// between any two calls (the user may run the tool's login flow at any
// time), so callers must re-read it before every comparison and never cache
// it across operations.
type Backend interface {
	// Tool identifies which tool this backend serves.
	Tool() tool.Tool

	// ReadActive returns the live credential currently in effect.
	ReadActive() ([]byte, error)
	// WriteActive replaces the live credential.
	WriteActive(data []byte) error

	// ReadProfile returns the credential saved under name, or ErrNotFound.
	ReadProfile(name string) ([]byte, error)
	// WriteProfile saves a credential under name, creating or overwriting.
	WriteProfile(name string, data []byte) error
	// DeleteProfile removes a saved profile, or ErrNotFound.
	DeleteProfile(name string) error
	// ListProfiles returns saved profile names in display order.
	ListProfiles() ([]string, error)

	// ReadMarker returns the current-profile marker, "" if unset.
	ReadMarker() (string, error)
	// WriteMarker sets the current-profile marker; "" clears it.
	WriteMarker(name string) error

	// SaveOrder persists the display order for ListProfiles.
	SaveOrder(names []string) error
}

// For returns the backend serving the given tool.
func For(t tool.Tool) Backend {
	switch t {
	case tool.Claude:
		return NewKeychain()
	default:
		return NewFile()
	}
}

// opError wraps a backend failure with its operation and tool for context.
func opError(op string, t tool.Tool, err error) error {
	return fmt.Errorf("%s (%s): %w", op, t, err)
}
