package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Local persists downloaded attachments and rendered exports on disk under a
// base directory. Filenames are flattened to their base name so a remote
// service cannot steer writes outside the directory.
type Local struct {
	baseDir string
}

// NewLocal returns a handle rooted at baseDir. The directory is created on
// first save, not here, so construction never fails.
func NewLocal(baseDir string) *Local {
	if baseDir == "" {
		baseDir = "."
	}
	return &Local{baseDir: baseDir}
}

// Save writes data under the base directory and returns the full path of the
// written file.
func (s *Local) Save(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create storage directory: %w", err)
	}
	path := s.Path(filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// Path resolves the on-disk location a filename would be saved to.
func (s *Local) Path(filename string) string {
	return filepath.Join(s.baseDir, filepath.Base(filename))
}
