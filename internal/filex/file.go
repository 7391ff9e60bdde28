// Package filex contains small filesystem helpers for the client data dir.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if it does not exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// DefaultDataDir returns the per-user directory for vault databases and the
// identity file. It prefers the OS config dir and falls back to a dot
// directory under the current working directory.
func DefaultDataDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "ghostvault")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ".ghostvault"
	}
	return filepath.Join(cwd, ".ghostvault")
}
