// Package session keeps the signed-in user on the client side.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/worldatlas/worldatlas-go/internal/model"
)

// StorageKey is the key the user blob is stored under.
const StorageKey = "user"

// Store persists the signed-in user as one blob.
type Store interface {
	Load() (*model.AuthResponse, error)
	Save(user *model.AuthResponse) error
	Clear() error
}

// DefaultPath returns $XDG_CONFIG_HOME/worldatlas/storage.json, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "worldatlas", "storage.json"), nil
}

// FileStore is a Store backed by a JSON document on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

// Load returns the stored user, or nil when nothing is stored.
func (f *FileStore) Load() (*model.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	return doc[StorageKey], nil
}

func (f *FileStore) Save(user *model.AuthResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		doc = map[string]*model.AuthResponse{}
	}
	doc[StorageKey] = user
	return f.write(doc)
}

// Clear removes the stored user. Clearing an empty store is not an error.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil || len(doc) <= 1 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	delete(doc, StorageKey)
	return f.write(doc)
}

func (f *FileStore) read() (map[string]*model.AuthResponse, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]*model.AuthResponse{}, nil
	}
	if err != nil {
		return nil, err
	}

	doc := map[string]*model.AuthResponse{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *FileStore) write(doc map[string]*model.AuthResponse) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Session is the client's view of who is signed in. A stored user counts as
// signed in until a server call rejects its token.
type Session struct {
	store Store
	user  *model.AuthResponse
}

// New creates a Session and loads any stored user. An unreadable blob is
// cleared and the session starts signed out.
func New(store Store) (*Session, error) {
	s := &Session{store: store}
	if err := s.Load(); err != nil {
		if clearErr := store.Clear(); clearErr != nil {
			return nil, errors.Join(err, clearErr)
		}
	}
	return s, nil
}

// Load refreshes the in-memory user from the store.
func (s *Session) Load() error {
	user, err := s.store.Load()
	if err != nil {
		s.user = nil
		return err
	}
	if user != nil && user.Token == "" {
		user = nil
	}
	s.user = user
	return nil
}

// Save records user as signed in.
func (s *Session) Save(user model.AuthResponse) error {
	if err := s.store.Save(&user); err != nil {
		return err
	}
	s.user = &user
	return nil
}

// Clear signs the user out.
func (s *Session) Clear() error {
	s.user = nil
	return s.store.Clear()
}

// User returns the signed-in user, if any.
func (s *Session) User() (model.AuthResponse, bool) {
	if s.user == nil {
		return model.AuthResponse{}, false
	}
	return *s.user, true
}

func (s *Session) LoggedIn() bool {
	return s.user != nil
}

// Token returns the bearer token of the signed-in user, or "".
func (s *Session) Token() string {
	if s.user == nil {
		return ""
	}
	return s.user.Token
}
