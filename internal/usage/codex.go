package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aipdev/aip/internal/tool"
)

// sessionTailBytes bounds how much of a session file we scan. Rate-limit
// snapshots appear on nearly every turn, so the tail is always enough.
const sessionTailBytes = 64 * 1024

// sessionLookbackDays is how far back we look for a session file.
const sessionLookbackDays = 7

type codexSessionEntry struct {
	Payload *struct {
		RateLimits *codexRateLimits `json:"rate_limits"`
	} `json:"payload"`
}

type codexRateLimits struct {
	Primary   *codexRateWindow `json:"primary"`
	Secondary *codexRateWindow `json:"secondary"`
}

type codexRateWindow struct {
	UsedPercent float64 `json:"used_percent"`
	ResetsAt    int64   `json:"resets_at"` // unix seconds
}

// CodexFetcher reads rate limits from the tail of the newest Codex session
// log. Codex has no usage API; its CLI records a rate_limits snapshot into
// ~/.codex/sessions/YYYY/MM/DD/*.jsonl on every turn.
type CodexFetcher struct {
	// Now overrides the clock for testing.
	Now func() time.Time
}

// NewCodexFetcher creates a session-log usage fetcher.
func NewCodexFetcher() *CodexFetcher {
	return &CodexFetcher{}
}

func (f *CodexFetcher) Tool() tool.Tool { return tool.Codex }

func (f *CodexFetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// Fetch scans for the latest rate-limit snapshot.
func (f *CodexFetcher) Fetch(ctx context.Context) ([]Window, error) {
	path, err := f.latestSessionFile()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no recent sessions", ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limits, err := readRateLimitsFromTail(path)
	if err != nil {
		return nil, err
	}
	if limits == nil {
		return nil, fmt.Errorf("%w: no rate limits in session log", ErrUnavailable)
	}

	var windows []Window
	if w := limits.Primary; w != nil {
		windows = append(windows, leftWindow("5h", w))
	}
	if w := limits.Secondary; w != nil {
		windows = append(windows, leftWindow("weekly", w))
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: empty rate limits", ErrUnavailable)
	}
	return windows, nil
}

// leftWindow converts a recorded used_percent into the percent-left
// convention Codex's own UI uses.
func leftWindow(label string, w *codexRateWindow) Window {
	win := Window{
		Tool:       tool.Codex,
		Label:      label,
		Fraction:   1 - w.UsedPercent/100,
		Convention: Left,
	}
	if w.ResetsAt > 0 {
		t := time.Unix(w.ResetsAt, 0).UTC()
		win.ResetsAt = &t
	}
	return win
}

// latestSessionFile walks today backwards through the dated session
// directories and returns the newest jsonl file, or "" if none exist.
func (f *CodexFetcher) latestSessionFile() (string, error) {
	home, err := tool.Codex.HomeDir()
	if err != nil {
		return "", err
	}
	sessionsDir := filepath.Join(home, "sessions")
	if _, err := os.Stat(sessionsDir); os.IsNotExist(err) {
		return "", nil
	}

	day := f.now()
	for i := 0; i < sessionLookbackDays; i++ {
		dayDir := filepath.Join(sessionsDir,
			day.Format("2006"), day.Format("01"), day.Format("02"))
		day = day.AddDate(0, 0, -1)

		entries, err := os.ReadDir(dayDir)
		if err != nil {
			continue
		}

		var files []string
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".jsonl") {
				files = append(files, filepath.Join(dayDir, entry.Name()))
			}
		}
		if len(files) > 0 {
			sort.Strings(files)
			return files[len(files)-1], nil
		}
	}
	return "", nil
}

// readRateLimitsFromTail scans the last chunk of a session file backwards
// for the most recent rate_limits entry.
func readRateLimitsFromTail(path string) (*codexRateLimits, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stating session log: %w", err)
	}

	readSize := info.Size()
	if readSize > sessionTailBytes {
		readSize = sessionTailBytes
	}
	if _, err := file.Seek(-readSize, io.SeekEnd); err != nil {
		return nil, fmt.Errorf("seeking session log: %w", err)
	}

	buf := make([]byte, readSize)
	if _, err := io.ReadFull(file, buf); err != nil {
		return nil, fmt.Errorf("reading session log: %w", err)
	}

	lines := strings.Split(string(buf), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !strings.Contains(line, "rate_limits") {
			continue
		}
		var entry codexSessionEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Payload != nil && entry.Payload.RateLimits != nil {
			return entry.Payload.RateLimits, nil
		}
	}
	return nil, nil
}
