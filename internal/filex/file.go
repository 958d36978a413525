// Package filex contains small filesystem helpers for the app data directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDataDir resolves the application data directory and creates it if
// needed. When dir is relative it is resolved against the user config
// directory (falling back to the current working directory).
func EnsureDataDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		base, err := os.UserConfigDir()
		if err != nil {
			base, err = os.Getwd()
			if err != nil {
				return "", fmt.Errorf("resolve data dir: %w", err)
			}
		}
		dir = filepath.Join(base, dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// WriteFileAtomic writes data to path via a temporary sibling file and a
// rename, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp: %w", err)
	}
	return nil
}
