package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aipdev/aip/internal/fsutil"
	"github.com/aipdev/aip/internal/tool"
)

// fileProfiles implements the profile-store and marker half of Backend on
// plain files under <home>/profiles/. Both backends embed it; they differ
// only in credFile (credentials.json for Claude, auth.json for Codex) and in
// how the active credential is reached.
type fileProfiles struct {
	t        tool.Tool
	credFile string
}

func (f *fileProfiles) Tool() tool.Tool { return f.t }

func (f *fileProfiles) ReadProfile(name string) ([]byte, error) {
	dir, err := f.t.ProfileDir(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, f.credFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile '%s' for %s: %w", name, f.t, ErrNotFound)
		}
		return nil, opError("reading profile", f.t, err)
	}
	return data, nil
}

func (f *fileProfiles) WriteProfile(name string, data []byte) error {
	dir, err := f.t.ProfileDir(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return opError("creating profile dir", f.t, err)
	}
	if err := fsutil.WriteFile(filepath.Join(dir, f.credFile), data, 0600); err != nil {
		return opError("writing profile", f.t, err)
	}
	return nil
}

func (f *fileProfiles) DeleteProfile(name string) error {
	dir, err := f.t.ProfileDir(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("profile '%s' for %s: %w", name, f.t, ErrNotFound)
	}
	if err := os.RemoveAll(dir); err != nil {
		return opError("deleting profile", f.t, err)
	}
	return nil
}

func (f *fileProfiles) ListProfiles() ([]string, error) {
	profilesDir, err := f.t.ProfilesDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, opError("listing profiles", f.t, err)
	}

	existing := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == tool.CurrentFile || name == tool.OrderFile {
			continue
		}
		existing[name] = true
	}

	orderPath, err := f.t.OrderPath()
	if err != nil {
		return nil, err
	}
	orderContent, _ := os.ReadFile(orderPath)

	return tool.MergeOrder(existing, string(orderContent)), nil
}

func (f *fileProfiles) ReadMarker() (string, error) {
	path, err := f.t.CurrentPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", opError("reading marker", f.t, err)
	}
	name := strings.TrimSpace(string(data))
	if name == "" || tool.ValidateName(name) != nil {
		return "", nil
	}
	return name, nil
}

func (f *fileProfiles) WriteMarker(name string) error {
	if name != "" {
		if err := tool.ValidateName(name); err != nil {
			return err
		}
	}
	path, err := f.t.CurrentPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return opError("creating profiles dir", f.t, err)
	}
	if err := fsutil.WriteFile(path, []byte(name+"\n"), 0644); err != nil {
		return opError("writing marker", f.t, err)
	}
	return nil
}

func (f *fileProfiles) SaveOrder(names []string) error {
	path, err := f.t.OrderPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return opError("creating profiles dir", f.t, err)
	}
	content := strings.Join(names, "\n") + "\n"
	if err := fsutil.WriteFile(path, []byte(content), 0644); err != nil {
		return opError("writing order", f.t, err)
	}
	return nil
}

// FileBackend serves Codex CLI: the active credential is <home>/auth.json.
type FileBackend struct {
	fileProfiles
}

// NewFile creates the Codex CLI backend.
func NewFile() *FileBackend {
	return &FileBackend{fileProfiles{t: tool.Codex, credFile: "auth.json"}}
}

func (b *FileBackend) activePath() (string, error) {
	home, err := b.t.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "auth.json"), nil
}

// ReadActive reads <home>/auth.json.
func (b *FileBackend) ReadActive() ([]byte, error) {
	path, err := b.activePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("active credential for %s: %w", b.t, ErrNotFound)
		}
		return nil, opError("reading active credential", b.t, err)
	}
	return data, nil
}

// WriteActive atomically replaces <home>/auth.json.
func (b *FileBackend) WriteActive(data []byte) error {
	path, err := b.activePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return opError("creating home dir", b.t, err)
	}
	if err := fsutil.WriteFile(path, data, 0600); err != nil {
		return opError("writing active credential", b.t, err)
	}
	return nil
}
