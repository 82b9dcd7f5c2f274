package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/reedfamily/a2sbot/internal/db"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.Migrate(database); err != nil {
		t.Fatal(err)
	}
	return NewService(database, ttl)
}

func TestLoginFlow(t *testing.T) {
	s := newTestService(t, 0)
	ctx := context.Background()

	if err := s.EnsureDefaultUser(ctx, "admin", "secret"); err != nil {
		t.Fatal(err)
	}
	// second call must not add or overwrite
	if err := s.EnsureDefaultUser(ctx, "other", "x"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Login(ctx, "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := s.Login(ctx, "other", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v", err)
	}

	token, err := s.Login(ctx, "admin", "secret")
	if err != nil {
		t.Fatal(err)
	}
	user, err := s.ValidateSession(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != "admin" {
		t.Errorf("user = %+v", user)
	}

	if err := s.Logout(ctx, token); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ValidateSession(ctx, token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("after logout err = %v", err)
	}
}

func TestExpiredSession(t *testing.T) {
	s := newTestService(t, time.Nanosecond)
	ctx := context.Background()
	s.EnsureDefaultUser(ctx, "admin", "secret")

	token, err := s.Login(ctx, "admin", "secret")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)

	n, err := s.PurgeExpired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("purged %d sessions, want 1", n)
	}
	if _, err := s.ValidateSession(ctx, token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("err = %v", err)
	}
}
