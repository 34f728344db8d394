// Package fsutil provides atomic file operations.
//
// Credential files must never be observable in a half-written state: a crash
// mid-write would otherwise leave a truncated JSON blob that the tool CLIs
// (and our own drift comparison) would misread. Every write here goes to a
// temporary file in the same directory and is renamed into place.
package fsutil

import (
	"fmt"
	"os"
)

// WriteFile atomically writes data to path with the given mode.
func WriteFile(path string, data []byte, mode os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming %s: %w", tmpPath, err)
	}
	return nil
}
