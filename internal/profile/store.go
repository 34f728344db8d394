// Package profile implements the profile store, the sync checker, and the
// switch engine over a credential backend.
//
// A profile is a named snapshot of a credential blob. The _current marker
// records which profile the tool's active credential is supposed to match;
// the sync checker compares the two before any switch so a credential the
// user obtained by logging in directly through the tool is never silently
// overwritten.
package profile

import (
	"errors"
	"fmt"

	"github.com/aipdev/aip/internal/backend"
	"github.com/aipdev/aip/internal/tool"
)

// ErrProfileInUse is returned when deleting the profile the marker points at.
var ErrProfileInUse = errors.New("profile is in use")

// Entry is one row of a profile listing.
type Entry struct {
	Name    string
	Current bool
}

// Store provides CRUD over one tool's saved profiles.
type Store struct {
	b backend.Backend
}

// NewStore creates a store over the given backend.
func NewStore(b backend.Backend) *Store {
	return &Store{b: b}
}

// Save writes a credential blob under name, overwriting any existing profile
// of that name. The marker is not touched; overwriting is the explicit
// "replace this" path and is distinct from switching.
func (s *Store) Save(name string, cred []byte) error {
	if err := tool.ValidateName(name); err != nil {
		return err
	}
	return s.b.WriteProfile(name, cred)
}

// List enumerates saved profiles, annotating which one the marker names.
func (s *Store) List() ([]Entry, error) {
	names, err := s.b.ListProfiles()
	if err != nil {
		return nil, err
	}
	current, err := s.b.ReadMarker()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Current: name == current})
	}
	return entries, nil
}

// Delete removes a saved profile. The profile the marker points at cannot be
// deleted; switch away first.
func (s *Store) Delete(name string) error {
	if err := tool.ValidateName(name); err != nil {
		return err
	}
	current, err := s.b.ReadMarker()
	if err != nil {
		return err
	}
	if name == current {
		return fmt.Errorf("cannot delete current profile '%s' for %s: %w", name, s.b.Tool(), ErrProfileInUse)
	}
	return s.b.DeleteProfile(name)
}

// Current returns the marker value, "" if unset.
func (s *Store) Current() (string, error) {
	return s.b.ReadMarker()
}

// SaveOrder persists a display order for List.
func (s *Store) SaveOrder(names []string) error {
	return s.b.SaveOrder(names)
}
