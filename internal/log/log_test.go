package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInit_StderrLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Stderr: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	Debug("hidden")
	Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message leaked to stderr at default level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing from stderr: %q", out)
	}
}

func TestInit_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Verbose: true, Stderr: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("verbose debug message missing: %q", buf.String())
	}
}

func TestInit_InteractiveSuppressesVerbose(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Verbose: true, Interactive: true, Stderr: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	Info("quiet")
	if strings.Contains(buf.String(), "quiet") {
		t.Errorf("interactive mode should suppress info on stderr: %q", buf.String())
	}
}

func TestInit_DebugFileGetsAllLevels(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := Init(Options{Stderr: &buf, DebugDir: dir}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	Debug("to file", "tool", "claude")
	Close()

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".jsonl")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading debug file: %v", err)
	}

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("debug file is not JSON lines: %v", err)
	}
	if rec["msg"] != "to file" || rec["tool"] != "claude" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestCleanup_RemovesOldFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "2020-01-01.jsonl")
	keep := filepath.Join(dir, time.Now().Format("2006-01-02")+".jsonl")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, keep, other} {
		os.WriteFile(p, []byte("x"), 0644)
	}

	Cleanup(dir, 7)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old debug file not removed")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("current debug file removed")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("non-log file removed")
	}
}
