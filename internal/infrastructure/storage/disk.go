package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore saves uploaded listing images under a local directory and hands
// back the relative path stored on the listing document.
type DiskStore struct {
	dir string
}

// NewDiskStore ensures the upload directory exists.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the root directory images are stored under.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes a multipart file under a unique name and returns its path.
// The name is <unixnano>-<sanitized original name>, so repeated uploads of
// the same file never collide.
func (s *DiskStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFilename(file.Filename))
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

// sanitizeFilename strips path separators and whitespace from the
// client-supplied name.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}
