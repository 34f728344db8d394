package backend

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/aipdev/aip/internal/tool"
)

func newTestFile(t *testing.T) *FileBackend {
	t.Helper()
	tool.SetHomeOverride(tool.Codex, t.TempDir())
	t.Cleanup(func() { tool.SetHomeOverride(tool.Codex, "") })
	return NewFile()
}

func newTestKeychain(t *testing.T) *KeychainBackend {
	t.Helper()
	keyring.MockInit()
	tool.SetHomeOverride(tool.Claude, t.TempDir())
	t.Cleanup(func() { tool.SetHomeOverride(tool.Claude, "") })
	return NewKeychain()
}

func TestFileBackend_ActiveRoundTrip(t *testing.T) {
	b := newTestFile(t)

	if _, err := b.ReadActive(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadActive on empty home = %v, want ErrNotFound", err)
	}

	blob := []byte(`{"tokens":{"account_id":"acct-1"}}`)
	if err := b.WriteActive(blob); err != nil {
		t.Fatalf("WriteActive: %v", err)
	}

	got, err := b.ReadActive()
	if err != nil {
		t.Fatalf("ReadActive: %v", err)
	}
	if string(got) != string(blob) {
		t.Errorf("active = %q, want %q", got, blob)
	}

	// auth.json sits directly in the tool home
	home, _ := tool.Codex.HomeDir()
	if _, err := os.Stat(filepath.Join(home, "auth.json")); err != nil {
		t.Errorf("auth.json not at expected path: %v", err)
	}
}

func TestKeychainBackend_ActiveRoundTrip(t *testing.T) {
	b := newTestKeychain(t)

	if _, err := b.ReadActive(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadActive on empty store = %v, want ErrNotFound", err)
	}

	blob := []byte(`{"claudeAiOauth":{"accessToken":"tok-1"}}`)
	if err := b.WriteActive(blob); err != nil {
		t.Fatalf("WriteActive: %v", err)
	}

	got, err := b.ReadActive()
	if err != nil {
		t.Fatalf("ReadActive: %v", err)
	}
	if string(got) != string(blob) {
		t.Errorf("active = %q, want %q", got, blob)
	}
}

func TestFileProfiles_CRUD(t *testing.T) {
	b := newTestFile(t)

	if _, err := b.ReadProfile("work"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadProfile missing = %v, want ErrNotFound", err)
	}

	blob := []byte(`{"tokens":{"account_id":"acct-1"}}`)
	if err := b.WriteProfile("work", blob); err != nil {
		t.Fatalf("WriteProfile: %v", err)
	}

	got, err := b.ReadProfile("work")
	if err != nil {
		t.Fatalf("ReadProfile: %v", err)
	}
	if string(got) != string(blob) {
		t.Errorf("profile = %q, want %q", got, blob)
	}

	// Overwrite is allowed
	blob2 := []byte(`{"tokens":{"account_id":"acct-2"}}`)
	if err := b.WriteProfile("work", blob2); err != nil {
		t.Fatalf("WriteProfile overwrite: %v", err)
	}
	got, _ = b.ReadProfile("work")
	if string(got) != string(blob2) {
		t.Errorf("profile after overwrite = %q, want %q", got, blob2)
	}

	if err := b.DeleteProfile("work"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := b.ReadProfile("work"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadProfile after delete = %v, want ErrNotFound", err)
	}
	if err := b.DeleteProfile("work"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteProfile again = %v, want ErrNotFound", err)
	}
}

func TestFileProfiles_RejectsInvalidNames(t *testing.T) {
	b := newTestFile(t)
	for _, name := range []string{"", "../evil", "_current", "_order", "a b"} {
		if err := b.WriteProfile(name, []byte("{}")); !errors.Is(err, tool.ErrInvalidName) {
			t.Errorf("WriteProfile(%q) = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestListProfiles_OrderMerge(t *testing.T) {
	b := newTestFile(t)

	for _, name := range []string{"alpha", "beta", "gamma"} {
		if err := b.WriteProfile(name, []byte("{}")); err != nil {
			t.Fatalf("WriteProfile(%s): %v", name, err)
		}
	}
	if err := b.WriteMarker("beta"); err != nil {
		t.Fatalf("WriteMarker: %v", err)
	}
	if err := b.SaveOrder([]string{"gamma", "alpha"}); err != nil {
		t.Fatalf("SaveOrder: %v", err)
	}

	got, err := b.ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	// Ordered names first, unlisted ones appended sorted; _current and
	// _order never show up as profiles.
	want := []string{"gamma", "alpha", "beta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListProfiles = %v, want %v", got, want)
	}
}

func TestListProfiles_EmptyHome(t *testing.T) {
	b := newTestFile(t)
	got, err := b.ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListProfiles = %v, want empty", got)
	}
}

func TestMarker_Lifecycle(t *testing.T) {
	b := newTestFile(t)

	name, err := b.ReadMarker()
	if err != nil || name != "" {
		t.Fatalf("ReadMarker fresh = (%q, %v), want empty", name, err)
	}

	if err := b.WriteMarker("work"); err != nil {
		t.Fatalf("WriteMarker: %v", err)
	}
	name, err = b.ReadMarker()
	if err != nil || name != "work" {
		t.Fatalf("ReadMarker = (%q, %v), want work", name, err)
	}

	// Clearing
	if err := b.WriteMarker(""); err != nil {
		t.Fatalf("WriteMarker clear: %v", err)
	}
	name, _ = b.ReadMarker()
	if name != "" {
		t.Errorf("ReadMarker after clear = %q, want empty", name)
	}
}

func TestReadMarker_GarbageTreatedAsUnset(t *testing.T) {
	b := newTestFile(t)
	path, _ := tool.Codex.CurrentPath()
	os.MkdirAll(filepath.Dir(path), 0700)
	os.WriteFile(path, []byte("../escape\n"), 0644)

	name, err := b.ReadMarker()
	if err != nil {
		t.Fatalf("ReadMarker: %v", err)
	}
	if name != "" {
		t.Errorf("ReadMarker = %q, want empty for unsafe content", name)
	}
}

func TestFor_Dispatch(t *testing.T) {
	if For(tool.Claude).Tool() != tool.Claude {
		t.Error("For(Claude) serves wrong tool")
	}
	if For(tool.Codex).Tool() != tool.Codex {
		t.Error("For(Codex) serves wrong tool")
	}
	if _, ok := For(tool.Claude).(*KeychainBackend); !ok {
		t.Error("For(Claude) is not the keychain backend")
	}
	if _, ok := For(tool.Codex).(*FileBackend); !ok {
		t.Error("For(Codex) is not the file backend")
	}
}
