package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sqrts/internal/crypto"
)

// FileStore keeps all items in one JSON document on disk. When a key is set
// the document is sealed with AES-GCM.
type FileStore struct {
	path string
	key  []byte
	mu   sync.Mutex
}

// NewFileStore stores items at path in plain JSON.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// NewEncryptedFileStore derives a store key from master and seals the file with it.
func NewEncryptedFileStore(path string, master []byte) (*FileStore, error) {
	key, err := crypto.DeriveKey(master, "sqrts-session-store")
	if err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return &FileStore{path: path, key: key}, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) GetItem(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (f *FileStore) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.read()
	if err != nil {
		return err
	}
	items[key] = value
	return f.write(items)
}

func (f *FileStore) RemoveItem(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return f.write(items)
}

func (f *FileStore) read() (map[string]string, error) {
	items := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if f.key != nil {
		data, err = crypto.DecryptAESGCM(f.key, data)
		if err != nil {
			return nil, fmt.Errorf("decrypt session file: %w", err)
		}
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return items, nil
}

func (f *FileStore) write(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	if f.key != nil {
		data, err = crypto.EncryptAESGCM(f.key, data)
		if err != nil {
			return fmt.Errorf("encrypt session file: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
