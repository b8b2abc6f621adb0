package session

// file.go is the fallback store for headless machines (CI, servers)
// where no keyring daemon is available.

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

type FileStore struct {
	path string
}

// NewFileStore stores the session at path. An empty path defaults to
// ~/.agriport/session.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".agriport", "session.json")
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Save(s Session) error {
	if s.Token == "" || !s.UserType.Valid() {
		return ErrInvalidSession
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	// 0600: the file holds a live credential
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileStore) Read() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (f *FileStore) IsActive() bool {
	s, err := f.Read()
	return err == nil && s != nil && s.Token != ""
}
