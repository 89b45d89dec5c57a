package storage

import (
	"bytes"
	"io"
	"io/fs"
	"sync"
)

// MemoryStorage keeps files in memory. Used for tests and throwaway dev instances.
type MemoryStorage struct {
	mu     sync.RWMutex
	files  map[string][]byte
	Writes int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{files: map[string][]byte{}}
}

func (s *MemoryStorage) Save(path string, reader io.Reader) (int64, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	s.Writes++
	return int64(len(data)), nil
}

func (s *MemoryStorage) Load(path string, writer io.Writer) (int64, error) {
	s.mu.RLock()
	data, ok := s.files[path]
	s.mu.RUnlock()
	if !ok {
		return 0, fs.ErrNotExist
	}
	return io.Copy(writer, bytes.NewReader(data))
}

func (s *MemoryStorage) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		return fs.ErrNotExist
	}
	delete(s.files, path)
	return nil
}

func (s *MemoryStorage) Exists(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[path]
	return ok
}

func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
