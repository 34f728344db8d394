// Package tool defines the supported AI tool CLIs and their on-disk layout.
//
// Each tool keeps its saved profiles under <home>/profiles/<name>/ with a
// profiles/_current marker file naming the profile the active credential is
// believed to match, and an optional profiles/_order file holding a
// user-chosen display order.
package tool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Tool identifies a supported AI tool CLI.
type Tool int

const (
	// Claude is Claude Code (active credential in the OS secure store).
	Claude Tool = iota
	// Codex is Codex CLI (active credential in ~/.codex/auth.json).
	Codex
)

// All lists every supported tool.
var All = []Tool{Claude, Codex}

// ErrInvalidName is returned for profile names that are empty, reserved, or
// not filesystem-safe.
var ErrInvalidName = errors.New("invalid profile name")

// Reserved filenames inside the profiles directory.
const (
	CurrentFile = "_current"
	OrderFile   = "_order"
)

// homeOverrides relocates tool home directories, set once at startup from
// config. Keyed by Tool.
var homeOverrides = map[Tool]string{}

// SetHomeOverride relocates a tool's home directory (from config or tests).
// An empty dir removes the override.
func SetHomeOverride(t Tool, dir string) {
	if dir == "" {
		delete(homeOverrides, t)
		return
	}
	homeOverrides[t] = dir
}

// String returns the tool's display name.
func (t Tool) String() string {
	switch t {
	case Claude:
		return "Claude Code"
	case Codex:
		return "Codex CLI"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

// Key returns the tool's short identifier used in CLI args and storage.
func (t Tool) Key() string {
	switch t {
	case Claude:
		return "claude"
	default:
		return "codex"
	}
}

// Parse resolves a CLI argument to a Tool.
func Parse(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "claude":
		return Claude, nil
	case "codex":
		return Codex, nil
	default:
		return 0, fmt.Errorf("unknown tool: %s (expected 'claude' or 'codex')", s)
	}
}

// HomeDir returns the tool's home directory (~/.claude or ~/.codex unless
// overridden).
func (t Tool) HomeDir() (string, error) {
	if dir, ok := homeOverrides[t]; ok {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	switch t {
	case Claude:
		return filepath.Join(home, ".claude"), nil
	default:
		return filepath.Join(home, ".codex"), nil
	}
}

// ProfilesDir returns the tool's profile storage directory.
func (t Tool) ProfilesDir() (string, error) {
	home, err := t.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "profiles"), nil
}

// CurrentPath returns the path to the tool's _current marker file.
func (t Tool) CurrentPath() (string, error) {
	dir, err := t.ProfilesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, CurrentFile), nil
}

// OrderPath returns the path to the tool's _order file.
func (t Tool) OrderPath() (string, error) {
	dir, err := t.ProfilesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, OrderFile), nil
}

// ValidateName checks that a profile name is non-empty, not reserved, and
// contains only ASCII alphanumerics, '-' and '_' (so it is always safe as a
// directory name).
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if name == CurrentFile || name == OrderFile {
		return fmt.Errorf("%w: '%s' is reserved", ErrInvalidName, name)
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return fmt.Errorf("%w: '%s' (only ASCII alphanumeric, '-', '_' allowed)", ErrInvalidName, name)
		}
	}
	return nil
}

// ProfileDir returns the directory for a named profile, validating the name.
func (t Tool) ProfileDir(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	dir, err := t.ProfilesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// MergeOrder arranges existing profile names per the _order file content:
// ordered names first (skipping ones that no longer exist), then any names
// the order file doesn't know, sorted.
func MergeOrder(existing map[string]bool, orderContent string) []string {
	remaining := make(map[string]bool, len(existing))
	for name := range existing {
		remaining[name] = true
	}

	var result []string
	for _, line := range strings.Split(orderContent, "\n") {
		name := strings.TrimSpace(line)
		if name != "" && remaining[name] {
			delete(remaining, name)
			result = append(result, name)
		}
	}

	rest := make([]string, 0, len(remaining))
	for name := range remaining {
		rest = append(rest, name)
	}
	sort.Strings(rest)

	return append(result, rest...)
}
