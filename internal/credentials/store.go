// Package credentials persists login sessions as named profiles and exposes
// the active bearer token to the HTTP client.
//
// The store is the only writer of the credentials file. Everything else reads
// the token through a TokenSource at the moment a request is issued, so a
// login performed by another process is picked up by the next request.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/alfredjeanlab/hrms/internal/model"
)

// TokenEnvVar overrides the stored token when set.
const TokenEnvVar = "HRMS_TOKEN"

// DefaultProfile is the profile name used when none is given.
const DefaultProfile = "default"

// TokenSource returns the bearer token to attach to a request. An empty
// string means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token returns the token itself.
func (s StaticToken) Token() string { return string(s) }

// File is the on-disk layout of the credentials file.
type File struct {
	Active   string             `toml:"active"`
	Profiles map[string]Profile `toml:"profiles"`
}

// Profile is one saved session against one HRMS backend.
type Profile struct {
	URL    string     `toml:"url"`
	Prefix string     `toml:"prefix,omitempty"`
	Token  string     `toml:"token,omitempty"`
	UserID string     `toml:"user_id,omitempty"`
	Role   model.Role `toml:"role,omitempty"`
	Name   string     `toml:"name,omitempty"`
	Email  string     `toml:"email,omitempty"`
}

// ErrNoProfile is returned when the requested or active profile does not exist.
var ErrNoProfile = errors.New("no such profile")

// Store reads and writes the credentials file.
type Store struct {
	path string
	mu   sync.Mutex
}

// DefaultPath returns ~/.local/state/hrms/credentials.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "hrms", "credentials.toml"), nil
}

// NewStore returns a store backed by path. The file is created lazily on the
// first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string { return s.path }

// Load reads the credentials file. A missing file yields an empty File.
func (s *Store) Load() (File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (File, error) {
	var f File
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if os.IsNotExist(err) {
			return File{Profiles: map[string]Profile{}}, nil
		}
		return File{}, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
	return f, nil
}

// Save replaces the credentials file atomically with owner-only permissions.
func (s *Store) Save(f File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(f)
}

func (s *Store) save(f File) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := toml.NewEncoder(tmp).Encode(f); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Update loads the file, applies fn and saves the result under one lock.
func (s *Store) Update(fn func(*File) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(&f); err != nil {
		return err
	}
	return s.save(f)
}

// Active returns the active profile and its name. name overrides the
// file's active marker when non-empty.
func (s *Store) Active(name string) (string, Profile, error) {
	f, err := s.Load()
	if err != nil {
		return "", Profile{}, err
	}
	if name == "" {
		name = f.Active
	}
	if name == "" {
		return "", Profile{}, ErrNoProfile
	}
	p, ok := f.Profiles[name]
	if !ok {
		return name, Profile{}, fmt.Errorf("profile %q: %w", name, ErrNoProfile)
	}
	return name, p, nil
}

// PutSession stores p under name and makes it active.
func (s *Store) PutSession(name string, p Profile) error {
	return s.Update(func(f *File) error {
		f.Profiles[name] = p
		f.Active = name
		return nil
	})
}

// ClearToken removes the token of the named profile, keeping its URL so the
// next login can reuse it.
func (s *Store) ClearToken(name string) error {
	return s.Update(func(f *File) error {
		if name == "" {
			name = f.Active
		}
		p, ok := f.Profiles[name]
		if !ok {
			return fmt.Errorf("profile %q: %w", name, ErrNoProfile)
		}
		p.Token = ""
		f.Profiles[name] = p
		return nil
	})
}

// Use marks name as the active profile. An empty name clears the marker.
func (s *Store) Use(name string) error {
	return s.Update(func(f *File) error {
		if name != "" {
			if _, ok := f.Profiles[name]; !ok {
				return fmt.Errorf("profile %q: %w", name, ErrNoProfile)
			}
		}
		f.Active = name
		return nil
	})
}

// Remove deletes a profile, clearing the active marker if it pointed there.
func (s *Store) Remove(name string) error {
	return s.Update(func(f *File) error {
		if _, ok := f.Profiles[name]; !ok {
			return fmt.Errorf("profile %q: %w", name, ErrNoProfile)
		}
		delete(f.Profiles, name)
		if f.Active == name {
			f.Active = ""
		}
		return nil
	})
}

// Names returns profile names sorted alphabetically.
func (f File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for n := range f.Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TokenFor returns a TokenSource that reads the named profile's token from
// disk on every call. An empty name follows the file's active marker.
func (s *Store) TokenFor(name string) TokenSource {
	return &fileToken{store: s, profile: name}
}

type fileToken struct {
	store   *Store
	profile string
}

func (t *fileToken) Token() string {
	if v := os.Getenv(TokenEnvVar); v != "" {
		return v
	}
	_, p, err := t.store.Active(t.profile)
	if err != nil {
		return ""
	}
	return p.Token
}
