package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todo-ledger/internal/apperr"
	"todo-ledger/internal/store/memory"
	"todo-ledger/internal/util"

	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T, clock *fakeClock) (*Service, *memory.Store) {
	t.Helper()
	if clock == nil {
		clock = &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	}
	st := memory.New()
	tokens := util.NewTokenManager("test-secret", "todo-ledger", time.Hour, clock.Now)
	svc, err := NewService(st, tokens, bcrypt.MinCost, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, st
}

func TestRegisterTwiceConflicts(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if user.ID == 0 || user.Username != "alice" {
		t.Fatalf("unexpected user %+v", user)
	}

	_, err = svc.Register(ctx, "alice", "pw2")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("second register: expected conflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	cases := []struct{ username, password string }{
		{"", "pw1"},
		{"   ", "pw1"},
		{"alice", ""},
		{strings.Repeat("a", util.MaxUsernameLen+1), "pw1"},
		{"alice", strings.Repeat("p", util.MaxPasswordBytes+1)},
	}
	for _, tc := range cases {
		_, err := svc.Register(ctx, tc.username, tc.password)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Register(%q, %d-byte password): expected validation error, got %v",
				tc.username, len(tc.password), err)
		}
	}
}

func TestRegisterStoresHashOnly(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "  alice  ", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	stored, err := st.UserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("username was not trimmed: %v", err)
	}
	if stored.PasswordHash == "pw1" || !util.CheckPassword("pw1", stored.PasswordHash) {
		t.Fatalf("unexpected stored hash %q", stored.PasswordHash)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := svc.Login(ctx, "alice", "nope")
	_, unknownUser := svc.Login(ctx, "mallory", "pw1")

	for _, err := range []error{wrongPassword, unknownUser} {
		if !errors.Is(err, apperr.ErrAuth) {
			t.Fatalf("expected auth error, got %v", err)
		}
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPassword, unknownUser)
	}
	if apperr.MessageOf(wrongPassword) != "invalid credentials" {
		t.Fatalf("unexpected message %q", apperr.MessageOf(wrongPassword))
	}
}

func TestLoginRejectsPasswordPastBcryptLimit(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	password := strings.Repeat("a", util.MaxPasswordBytes)
	if _, err := svc.Register(ctx, "bob", password); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "bob", password); err != nil {
		t.Fatalf("login with exact password: %v", err)
	}

	_, err := svc.Login(ctx, "bob", password+"XYZ")
	if !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("expected auth error for longer password, got %v", err)
	}
	if apperr.MessageOf(err) != "invalid credentials" {
		t.Fatalf("unexpected message %q", apperr.MessageOf(err))
	}
}

func TestLoginRequiresFields(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.Login(context.Background(), "", "")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginThenVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, clock)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	tok, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !tok.ExpiresAt.Equal(clock.t.Add(time.Hour)) {
		t.Fatalf("expiry %v, want one hour after issuance", tok.ExpiresAt)
	}

	id, err := svc.Verify(tok.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != user.ID || id.Username != "alice" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifyAfterExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, clock)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	tok, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	clock.Advance(time.Hour + time.Second)
	_, expired := svc.Verify(tok.Token)
	if !errors.Is(expired, apperr.ErrAuth) {
		t.Fatalf("expected auth error after expiry, got %v", expired)
	}

	_, tampered := svc.Verify(tok.Token[:len(tok.Token)-2] + "xx")
	_, garbage := svc.Verify("not-a-token")
	_, empty := svc.Verify("")
	for _, err := range []error{tampered, garbage, empty} {
		if !errors.Is(err, apperr.ErrAuth) {
			t.Fatalf("expected auth error, got %v", err)
		}
		if apperr.MessageOf(err) != apperr.MessageOf(expired) {
			t.Fatalf("message %q differs from expired message %q",
				apperr.MessageOf(err), apperr.MessageOf(expired))
		}
	}
}
