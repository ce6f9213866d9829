// Package roster loads and saves whole profiles.dat buffers and resolves
// where the game keeps them on each platform.
package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound means the profiles file does not exist at the given path.
var ErrNotFound = errors.New("roster: profiles file not found")

// Load reads the entire roster file into memory.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("roster: read %s: %w", path, err)
	}
	return data, nil
}

// Save writes buf to path, creating any missing parent directories. The
// write is a plain overwrite; a crash mid-write can leave partial output.
func Save(path string, buf []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("roster: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("roster: write %s: %w", path, err)
	}
	return nil
}
