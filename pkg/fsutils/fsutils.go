package fsutils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// CreateDir makes sure dir exists, creating parents as needed.
func CreateDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFileAtomic replaces the file at path with content.
// The content is written to a uniquely named temp file in the same directory,
// synced, and renamed over the target. On failure the previous file is left
// as it was and the temp file is removed.
func WriteFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := CreateDir(dir); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temp file %q: %w", tmpPath, err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file %q: %w", tmpPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file %q: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file %q: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up
		return fmt.Errorf("failed to rename temp file to %q: %w", path, err)
	}
	return nil
}

// FileExists reports whether path names something other than a directory.
// Stat errors count as absent.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
