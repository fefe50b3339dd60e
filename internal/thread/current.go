package thread

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const currentFile = "current_thread"

// Current returns the active thread id recorded in the state dir, or ""
// when none is set.
func Current(dir string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, currentFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read current thread: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// SetCurrent records the active thread id.
func SetCurrent(dir, threadID string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, currentFile), []byte(threadID+"\n"), 0o644); err != nil {
		return fmt.Errorf("write current thread: %w", err)
	}
	return nil
}
