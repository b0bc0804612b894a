package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps both credentials in one JSON document so a session is
// always written and removed as a unit.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Save(_ context.Context, session Session) error {
	if err := session.Validate(); err != nil {
		return &StoreError{Operation: "save", Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := map[string]string{AccessTokenKey: session.AccessToken}
	if strings.TrimSpace(session.RefreshToken) != "" {
		entries[RefreshTokenKey] = session.RefreshToken
	}
	if err := s.write(entries); err != nil {
		return &StoreError{Operation: "save", Cause: err}
	}
	return nil
}

func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &StoreError{Operation: "clear", Cause: err}
	}
	return nil
}

func (s *FileStore) ReadAccess(context.Context) (string, bool, error) {
	return s.read(AccessTokenKey)
}

func (s *FileStore) ReadRefresh(context.Context) (string, bool, error) {
	return s.read(RefreshTokenKey)
}

func (s *FileStore) read(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, &StoreError{Operation: "read", Key: key, Cause: err}
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return "", false, &StoreError{Operation: "read", Key: key, Cause: err}
	}
	value := strings.TrimSpace(entries[key])
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// write replaces the document through a temp file and rename so a crash
// mid-write never leaves a torn session behind.
func (s *FileStore) write(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	payload = append(payload, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
