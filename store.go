package sketch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a key-value persistence slot, the equivalent of browser local
// storage. Save overwrites any previous value under the key.
type Store interface {
	// Load returns the value under key, or an error wrapping ErrNotFound.
	Load(key string) ([]byte, error)
	// Save replaces the value under key.
	Save(key string, data []byte) error
}

// MemoryStore is an in-memory Store. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	// Quota is the maximum total number of bytes held; zero means unlimited.
	Quota int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (m *MemoryStore) Load(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

// Save implements Store.
func (m *MemoryStore) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Quota > 0 {
		total := len(data)
		for k, v := range m.values {
			if k != key {
				total += len(v)
			}
		}
		if total > m.Quota {
			return fmt.Errorf("%w: %d bytes over quota of %d", ErrQuotaExceeded, total, m.Quota)
		}
	}
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	m.values[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

// FileStore keeps one file per key in a directory.
// Writes go to a temporary file that is renamed into place, so a crash
// never leaves a truncated record behind.
type FileStore struct {
	mu    sync.Mutex
	dir   string
	quota int64
}

// storeDirName is the directory created under the user config directory.
const storeDirName = "gogpu-sketch"

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultFileStore returns a FileStore in the user config directory,
// e.g. ~/.config/gogpu-sketch on Linux.
func DefaultFileStore() (*FileStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return nil, fmt.Errorf("sketch: locate config dir: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return NewFileStore(filepath.Join(configDir, storeDirName)), nil
}

// Dir returns the directory holding the records.
func (f *FileStore) Dir() string { return f.dir }

// SetQuota limits the size of a single record in bytes. Zero disables
// the limit.
func (f *FileStore) SetQuota(n int64) {
	f.mu.Lock()
	f.quota = max(0, n)
	f.mu.Unlock()
}

func (f *FileStore) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("sketch: invalid store key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Load implements Store.
func (f *FileStore) Load(key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return data, err
}

// Save implements Store.
func (f *FileStore) Save(key string, data []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.quota > 0 && int64(len(data)) > f.quota {
		return fmt.Errorf("%w: %d bytes over quota of %d", ErrQuotaExceeded, len(data), f.quota)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
