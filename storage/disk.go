package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type DiskStorage struct {
	// BasePath is a directory that is writable by the current process
	BasePath string
	dirs     cmap.ConcurrentMap[string, bool]
}

func NewDiskStorage(basePath string) (*DiskStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &DiskStorage{
		BasePath: basePath,
		dirs:     cmap.New[bool](),
	}, nil
}

func (s *DiskStorage) createDir(dir string) error {
	if s.dirs.Has(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	s.dirs.Set(dir, true)
	return nil
}

func (s *DiskStorage) getFullPath(path string) string {
	// Keep everything below BasePath
	clean := filepath.Clean("/" + strings.ReplaceAll(path, "\\", "/"))
	return filepath.Join(s.BasePath, clean)
}

func (s *DiskStorage) Save(path string, reader io.Reader) (int64, error) {
	fileName := s.getFullPath(path)
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return 0, err
	}
	// Write to a temp file first so readers never see a half written image
	tmp, err := os.CreateTemp(filepath.Dir(fileName), ".upload-*")
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(tmp, reader)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	if err = os.Rename(tmp.Name(), fileName); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	return result, nil
}

func (s *DiskStorage) Load(path string, writer io.Writer) (int64, error) {
	file, err := os.Open(s.getFullPath(path))
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return io.Copy(writer, file)
}

func (s *DiskStorage) Delete(path string) error {
	return os.Remove(s.getFullPath(path))
}

func (s *DiskStorage) Exists(path string) bool {
	fi, err := os.Stat(s.getFullPath(path))
	return err == nil && !fi.IsDir()
}
