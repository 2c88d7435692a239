// Package persistence writes and reads gob snapshots on local disk.
package persistence

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// SaveGob encodes object into filePath. The snapshot is written to a temporary file
// in the same directory first and renamed into place, so readers never observe a
// partial file. Missing directories are created.
func SaveGob(filePath string, object any) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(object); err != nil {
		closeQuietly(tmp)
		removeQuietly(tmpPath)
		return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		removeQuietly(tmpPath)
		return fmt.Errorf("failed to close temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		removeQuietly(tmpPath)
		return fmt.Errorf("failed to move snapshot into %s: %w", filePath, err)
	}
	return nil
}

// LoadGob decodes the gob file at filePath into objectPointer.
// A missing file yields os.ErrNotExist so callers can treat it as a fresh start.
func LoadGob(filePath string, objectPointer any) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer closeQuietly(file)

	if err := gob.NewDecoder(file).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}

func closeQuietly(f *os.File) {
	if err := f.Close(); err != nil {
		slog.Warn("failed to close file", "path", f.Name(), "error", err)
	}
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove temp file", "path", path, "error", err)
	}
}
