package history

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/aipdev/aip/internal/tool"
	"github.com/aipdev/aip/internal/usage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	resetsAt := time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)
	windows := []usage.Window{
		{Tool: tool.Claude, Label: "5h", Fraction: 0.30, Convention: usage.Used, ResetsAt: &resetsAt},
		{Tool: tool.Codex, Label: "5h", Fraction: 0.70, Convention: usage.Left},
	}
	if err := store.Record(windows); err != nil {
		t.Fatalf("Record: %v", err)
	}

	claude, err := store.Recent(tool.Claude, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(claude) != 1 {
		t.Fatalf("got %d claude snapshots, want 1", len(claude))
	}
	if claude[0].UsedFrac != 0.30 {
		t.Errorf("UsedFrac = %v, want 0.30", claude[0].UsedFrac)
	}
	if claude[0].ResetsAt == nil || !claude[0].ResetsAt.Equal(resetsAt) {
		t.Errorf("ResetsAt = %v, want %v", claude[0].ResetsAt, resetsAt)
	}

	// Left-convention windows are normalized to used fraction on write.
	codex, err := store.Recent(tool.Codex, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(codex) != 1 {
		t.Fatalf("got %d codex snapshots, want 1", len(codex))
	}
	if math.Abs(codex[0].UsedFrac-0.30) > 1e-9 {
		t.Errorf("UsedFrac = %v, want 0.30 (normalized from left convention)", codex[0].UsedFrac)
	}
	if codex[0].ResetsAt != nil {
		t.Errorf("ResetsAt = %v, want nil", codex[0].ResetsAt)
	}
}

func TestRecent_NewestFirstAndLimited(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		err := store.record([]usage.Window{
			{Tool: tool.Claude, Label: "5h", Fraction: float64(i) / 10, Convention: usage.Used},
		}, time.Date(2026, 8, 20+i, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	snaps, err := store.Recent(tool.Claude, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}
	if snaps[0].UsedFrac != 0.4 {
		t.Errorf("newest first: snaps[0].UsedFrac = %v, want 0.4", snaps[0].UsedFrac)
	}
	if !snaps[0].FetchedAt.After(snaps[2].FetchedAt) {
		t.Errorf("snapshots not newest-first: %v then %v", snaps[0].FetchedAt, snaps[2].FetchedAt)
	}
}

func TestRecent_EmptyStore(t *testing.T) {
	store := openTestStore(t)
	snaps, err := store.Recent(tool.Codex, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("snapshots = %v, want none", snaps)
	}
}
