// Package fsio provides the file primitives the patch engine is wired to:
// read, write, and remove, all resolved against a workspace root.
package fsio

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FS resolves relative paths against a workspace root and performs the three
// effects the engine needs. It holds no state beyond the root and a logger.
type FS struct {
	root   string
	logger *zap.Logger
}

// New creates an FS rooted at root. A nil logger disables logging.
func New(root string, logger *zap.Logger) *FS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FS{root: filepath.Clean(root), logger: logger}
}

// Root returns the workspace root.
func (f *FS) Root() string { return f.root }

func (f *FS) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(f.root, path))
}

// Read returns the content of path. A missing path is an error.
func (f *FS) Read(path string) (string, error) {
	data, err := os.ReadFile(f.resolve(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write persists content at path, creating parent directories as needed.
// The write is atomic: content goes to a temp file in the target directory
// which is then renamed over the destination, keeping the original mode.
// An absolute path is not written; the call logs a notice and returns nil.
func (f *FS) Write(path, content string) error {
	if filepath.IsAbs(path) {
		f.logger.Warn("skipping write to absolute path", zap.String("path", path))
		return nil
	}
	fullPath := f.resolve(path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(fullPath), ".vpatch-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if info, statErr := os.Stat(fullPath); statErr == nil {
		_ = os.Chmod(tempPath, info.Mode())
	} else {
		_ = os.Chmod(tempPath, 0644)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Remove deletes the file at path. A missing path is an error.
func (f *FS) Remove(path string) error {
	return os.Remove(f.resolve(path))
}
