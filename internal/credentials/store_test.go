package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alfredjeanlab/hrms/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv(TokenEnvVar, "")
	return NewStore(filepath.Join(t.TempDir(), "state", "credentials.toml"))
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	f, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Active != "" || len(f.Profiles) != 0 {
		t.Errorf("got %+v, want empty file", f)
	}
}

func TestStore_PutSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	p := Profile{
		URL:    "http://hr.local:5000",
		Prefix: "api",
		Token:  "tok-1",
		UserID: "u1",
		Role:   model.RoleTeamLeader,
		Name:   "Ada",
	}
	if err := s.PutSession("work", p); err != nil {
		t.Fatalf("PutSession() error = %v", err)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	name, got, err := s.Active("")
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if name != "work" || got != p {
		t.Errorf("Active() = %q %+v, want work %+v", name, got, p)
	}
}

func TestStore_ActiveMissing(t *testing.T) {
	s := newTestStore(t)
	if _, _, err := s.Active(""); !errors.Is(err, ErrNoProfile) {
		t.Errorf("Active(\"\") error = %v, want ErrNoProfile", err)
	}
	if _, _, err := s.Active("ghost"); !errors.Is(err, ErrNoProfile) {
		t.Errorf("Active(ghost) error = %v, want ErrNoProfile", err)
	}
}

func TestStore_TokenReadAtCallTime(t *testing.T) {
	s := newTestStore(t)
	src := s.TokenFor("")
	if got := src.Token(); got != "" {
		t.Errorf("Token() before login = %q, want empty", got)
	}

	if err := s.PutSession(DefaultProfile, Profile{URL: "http://x", Token: "first"}); err != nil {
		t.Fatal(err)
	}
	if got := src.Token(); got != "first" {
		t.Errorf("Token() = %q, want first", got)
	}

	// A refresh written by another store instance is visible immediately.
	other := NewStore(s.Path())
	if err := other.PutSession(DefaultProfile, Profile{URL: "http://x", Token: "second"}); err != nil {
		t.Fatal(err)
	}
	if got := src.Token(); got != "second" {
		t.Errorf("Token() after refresh = %q, want second", got)
	}
}

func TestStore_TokenEnvOverride(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutSession(DefaultProfile, Profile{URL: "http://x", Token: "stored"}); err != nil {
		t.Fatal(err)
	}
	t.Setenv(TokenEnvVar, "from-env")
	if got := s.TokenFor("").Token(); got != "from-env" {
		t.Errorf("Token() = %q, want from-env", got)
	}
}

func TestStore_ClearTokenKeepsURL(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutSession("work", Profile{URL: "http://hr", Token: "tok"}); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearToken(""); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}
	_, p, err := s.Active("work")
	if err != nil {
		t.Fatal(err)
	}
	if p.Token != "" || p.URL != "http://hr" {
		t.Errorf("got %+v, want URL kept and token cleared", p)
	}
}

func TestStore_UseAndRemove(t *testing.T) {
	s := newTestStore(t)
	_ = s.PutSession("a", Profile{URL: "http://a"})
	_ = s.PutSession("b", Profile{URL: "http://b"})

	if err := s.Use("a"); err != nil {
		t.Fatalf("Use(a) error = %v", err)
	}
	if err := s.Use("ghost"); !errors.Is(err, ErrNoProfile) {
		t.Errorf("Use(ghost) error = %v, want ErrNoProfile", err)
	}
	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove(a) error = %v", err)
	}
	f, _ := s.Load()
	if f.Active != "" {
		t.Errorf("active = %q after removing it, want empty", f.Active)
	}
	if names := f.Names(); len(names) != 1 || names[0] != "b" {
		t.Errorf("Names() = %v, want [b]", names)
	}
}

func TestStaticToken(t *testing.T) {
	var src TokenSource = StaticToken("abc")
	if src.Token() != "abc" {
		t.Errorf("Token() = %q, want abc", src.Token())
	}
}
