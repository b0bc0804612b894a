package repofake

import (
	"context"
	"strings"
	"sync"

	"github.com/jrsteele09/go-video-client/credentials"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credentials.Store that counts mutations so tests
// can assert who wrote what.
type FakeStore struct {
	entries map[string]string
	saves   int
	clears  int
	lock    sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{entries: make(map[string]string)}
}

// NewFakeStoreWith returns a store already holding the given session.
func NewFakeStoreWith(session credentials.Session) *FakeStore {
	s := NewFakeStore()
	s.entries[credentials.AccessTokenKey] = session.AccessToken
	if session.RefreshToken != "" {
		s.entries[credentials.RefreshTokenKey] = session.RefreshToken
	}
	return s
}

func (s *FakeStore) Save(_ context.Context, session credentials.Session) error {
	if err := session.Validate(); err != nil {
		return &credentials.StoreError{Operation: "save", Cause: err}
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	s.saves++
	s.entries[credentials.AccessTokenKey] = session.AccessToken
	if strings.TrimSpace(session.RefreshToken) != "" {
		s.entries[credentials.RefreshTokenKey] = session.RefreshToken
	} else {
		delete(s.entries, credentials.RefreshTokenKey)
	}
	return nil
}

func (s *FakeStore) Clear(context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.clears++
	delete(s.entries, credentials.AccessTokenKey)
	delete(s.entries, credentials.RefreshTokenKey)
	return nil
}

func (s *FakeStore) ReadAccess(context.Context) (string, bool, error) {
	return s.read(credentials.AccessTokenKey)
}

func (s *FakeStore) ReadRefresh(context.Context) (string, bool, error) {
	return s.read(credentials.RefreshTokenKey)
}

func (s *FakeStore) Saves() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.saves
}

func (s *FakeStore) Clears() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.clears
}

// Snapshot returns the current session; ok is false when nothing is stored.
func (s *FakeStore) Snapshot() (credentials.Session, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	access, ok := s.entries[credentials.AccessTokenKey]
	return credentials.Session{AccessToken: access, RefreshToken: s.entries[credentials.RefreshTokenKey]}, ok
}

func (s *FakeStore) read(key string) (string, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	v, ok := s.entries[key]
	return v, ok && v != "", nil
}
