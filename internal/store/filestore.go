package store

import (
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps raw feed bodies on disk, keyed by relative path.
type FileStore struct {
	Root string // e.g. "~/.cache/premscout"
}

func NewFileStore(root string) *FileStore {
	return &FileStore{Root: root}
}

func (s *FileStore) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *FileStore) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

// ModTime reports when rel was last written.
func (s *FileStore) ModTime(rel string) (time.Time, error) {
	info, err := os.Stat(s.Path(rel))
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// WriteRaw writes body atomically via a temp file in the same directory.
func (s *FileStore) WriteRaw(rel string, body []byte) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *FileStore) ReadRaw(rel string) ([]byte, error) {
	return os.ReadFile(s.Path(rel))
}
