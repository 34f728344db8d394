// Package ui provides plain-terminal output helpers for the CLI commands.
// The interactive dashboard renders with lipgloss instead; this package is
// for the one-shot commands.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

var writer io.Writer = os.Stderr

// reader is shared across prompts. A single buffered reader matters when
// stdin is piped: a per-call bufio.Reader would buffer ahead and drop the
// line the next prompt needs.
var reader = bufio.NewReader(os.Stdin)

// SetWriter overrides the stderr writer (for testing).
func SetWriter(w io.Writer) { writer = w }

// SetReader overrides the prompt input (for testing).
func SetReader(r io.Reader) { reader = bufio.NewReader(r) }

var stdoutColor = detectColor(os.Stdout)

func detectColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColorEnabled overrides color detection (for testing).
func SetColorEnabled(enabled bool) { stdoutColor = enabled }

func ansi(code, s string) string {
	if !stdoutColor {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Bold returns s wrapped in bold ANSI codes.
func Bold(s string) string { return ansi("1", s) }

// Dim returns s wrapped in dim ANSI codes.
func Dim(s string) string { return ansi("2", s) }

// Green returns s wrapped in green ANSI codes.
func Green(s string) string { return ansi("32", s) }

// Red returns s wrapped in red ANSI codes.
func Red(s string) string { return ansi("31", s) }

// Yellow returns s wrapped in yellow ANSI codes.
func Yellow(s string) string { return ansi("33", s) }

// Warnf prints a user-facing warning to stderr.
func Warnf(format string, args ...any) {
	fmt.Fprintf(writer, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// Errorf prints a user-facing error to stderr.
func Errorf(format string, args ...any) {
	fmt.Fprintf(writer, "Error: %s\n", fmt.Sprintf(format, args...))
}

// Confirm prompts for a yes/no answer on stderr and reads a line from stdin.
// Anything but "y"/"yes" (case-insensitive) is no.
func Confirm(prompt string) (bool, error) {
	fmt.Fprintf(writer, "%s [y/N]: ", prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Prompt asks for a free-form value and reads a trimmed line from stdin.
func Prompt(label string) (string, error) {
	fmt.Fprintf(writer, "%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
