package certstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// Store keeps client TLS material on disk under a tenant-scoped
// directory. The root must live outside any publicly served path.
// Files are named with a fresh uuid so a new upload never collides with
// the file it replaces.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Save writes fileBytes to a new uniquely named file inside the
// tenant's directory and returns its path. A failed write leaves no
// partial file behind.
func (s *Store) Save(tenantID int64, fileBytes []byte, ext string) (string, error) {
	dir := filepath.Join(s.root, strconv.FormatInt(tenantID, 10))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create tenant directory: %w", err)
	}

	path := filepath.Join(dir, uuid.New().String()+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := f.Write(fileBytes); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return path, nil
}

// Remove deletes a previously saved file. A missing file is not an
// error.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
