package dashboard

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aipdev/aip/internal/backend"
	"github.com/aipdev/aip/internal/profile"
	"github.com/aipdev/aip/internal/tool"
)

func newTestModel(t *testing.T) (*Model, backend.Backend) {
	t.Helper()
	tool.SetHomeOverride(tool.Codex, t.TempDir())
	t.Cleanup(func() { tool.SetHomeOverride(tool.Codex, "") })

	b := backend.NewFile()
	m := New(Options{Engines: []*profile.Engine{profile.NewEngine(b)}})
	return m, b
}

// drain executes a command synchronously and feeds the message back.
func drain(t *testing.T, m *Model, cmd tea.Cmd) *Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				m = drain(t, m, c)
			}
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(*Model)
	}
	return m
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDashboard_ListsProfiles(t *testing.T) {
	m, b := newTestModel(t)
	if err := b.WriteProfile("work", []byte(`{}`)); err != nil {
		t.Fatalf("WriteProfile: %v", err)
	}
	if err := b.WriteMarker("work"); err != nil {
		t.Fatalf("WriteMarker: %v", err)
	}

	m = drain(t, m, m.loadProfiles(0))

	view := m.View()
	if !strings.Contains(view, "work") {
		t.Errorf("view missing profile name:\n%s", view)
	}
	if !strings.Contains(view, "* work") {
		t.Errorf("current profile not marked:\n%s", view)
	}
}

func TestDashboard_SwitchDriftPromptsThenApplies(t *testing.T) {
	m, b := newTestModel(t)
	eng := m.panels[0].engine

	if err := b.WriteActive([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("WriteActive: %v", err)
	}
	if err := eng.SaveAndActivate("work"); err != nil {
		t.Fatalf("SaveAndActivate: %v", err)
	}
	if err := eng.Store().Save("home", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// External login drifts the active credential.
	if err := b.WriteActive([]byte(`{"a":99}`)); err != nil {
		t.Fatalf("WriteActive: %v", err)
	}

	m = drain(t, m, m.loadProfiles(0))

	// Move cursor to "home" and hit enter: must block with a confirmation.
	next, _ := m.Update(key("j"))
	m = next.(*Model)
	next, cmd := m.Update(key("enter"))
	m = drain(t, next.(*Model), cmd)

	if m.mode != modeConfirmSwitch {
		t.Fatalf("mode = %v, want confirm prompt after drift", m.mode)
	}
	if !strings.Contains(m.View(), "drifted") {
		t.Errorf("view does not surface drift:\n%s", m.View())
	}
	// Active credential untouched while blocked.
	active, _ := b.ReadActive()
	if string(active) != `{"a":99}` {
		t.Errorf("active mutated while blocked: %s", active)
	}

	// Confirm: switch proceeds.
	next, cmd = m.Update(key("y"))
	m = drain(t, next.(*Model), cmd)

	active, _ = b.ReadActive()
	if string(active) != `{"a":2}` {
		t.Errorf("active after confirmed switch = %s, want home blob", active)
	}
	marker, _ := b.ReadMarker()
	if marker != "home" {
		t.Errorf("marker = %q, want home", marker)
	}
}

func TestDashboard_SwitchDriftDeclinedLeavesState(t *testing.T) {
	m, b := newTestModel(t)
	eng := m.panels[0].engine

	b.WriteActive([]byte(`{"a":1}`))
	eng.SaveAndActivate("work")
	eng.Store().Save("home", []byte(`{"a":2}`))
	b.WriteActive([]byte(`{"a":99}`))

	m = drain(t, m, m.loadProfiles(0))
	next, _ := m.Update(key("j"))
	m = next.(*Model)
	next, cmd := m.Update(key("enter"))
	m = drain(t, next.(*Model), cmd)

	next, cmd = m.Update(key("n"))
	m = drain(t, next.(*Model), cmd)

	if m.mode != modeNormal {
		t.Errorf("mode = %v, want normal after decline", m.mode)
	}
	active, _ := b.ReadActive()
	if string(active) != `{"a":99}` {
		t.Errorf("active changed after declined switch: %s", active)
	}
	marker, _ := b.ReadMarker()
	if marker != "work" {
		t.Errorf("marker = %q, want work", marker)
	}
}

func TestDashboard_DeleteCurrentRefused(t *testing.T) {
	m, b := newTestModel(t)
	eng := m.panels[0].engine

	b.WriteActive([]byte(`{"a":1}`))
	eng.SaveAndActivate("work")

	m = drain(t, m, m.loadProfiles(0))

	next, _ := m.Update(key("d"))
	m = next.(*Model)
	if m.mode != modeConfirmDelete {
		t.Fatalf("mode = %v, want delete confirmation", m.mode)
	}
	next, cmd := m.Update(key("y"))
	m = drain(t, next.(*Model), cmd)

	if !strings.Contains(m.status, "delete failed") {
		t.Errorf("status = %q, want delete failure for current profile", m.status)
	}
	if _, err := b.ReadProfile("work"); err != nil {
		t.Errorf("current profile removed: %v", err)
	}
}

func TestDashboard_ReorderPersists(t *testing.T) {
	m, b := newTestModel(t)
	for _, name := range []string{"alpha", "beta", "gamma"} {
		if err := b.WriteProfile(name, []byte(`{}`)); err != nil {
			t.Fatalf("WriteProfile(%s): %v", name, err)
		}
	}

	m = drain(t, m, m.loadProfiles(0))

	// Move alpha below beta.
	next, _ := m.Update(key("J"))
	m = next.(*Model)

	p := m.panels[0]
	if p.entries[0].Name != "beta" || p.entries[1].Name != "alpha" {
		t.Errorf("entries = %v, want beta before alpha", p.entries)
	}
	if p.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (following the moved profile)", p.cursor)
	}

	// The new order is persisted, so a fresh listing sees it.
	names, err := b.ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	want := []string{"beta", "alpha", "gamma"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("persisted order = %v, want %v", names, want)
		}
	}
}

func TestDashboard_ReorderAtEdgeIsNoop(t *testing.T) {
	m, b := newTestModel(t)
	if err := b.WriteProfile("only", []byte(`{}`)); err != nil {
		t.Fatalf("WriteProfile: %v", err)
	}

	m = drain(t, m, m.loadProfiles(0))

	next, _ := m.Update(key("K"))
	m = next.(*Model)

	p := m.panels[0]
	if p.cursor != 0 || p.entries[0].Name != "only" {
		t.Errorf("edge reorder moved state: cursor=%d entries=%v", p.cursor, p.entries)
	}
}
