package portal

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/adislis/handspeak/internal/store"
)

func newAdminEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.createUser(t, "root", "root@example.com", "secret", true)
	env.signin(t, "root@example.com", "secret")
	return env
}

func TestAdmin_NonAdminRedirected(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "alice@example.com", "secret", false)
	env.signin(t, "alice@example.com", "secret")

	for _, path := range []string{"/admin/", "/admin/users", "/admin/users/new"} {
		resp := env.get(t, path)
		resp.Body.Close()
		if got := location(t, resp); got != "/" {
			t.Errorf("%s: expected redirect to /, got %s", path, got)
		}
	}
}

func TestAdmin_AnonymousRedirectedToSignin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/admin/")
	resp.Body.Close()
	if got := location(t, resp); got != "/signin" {
		t.Errorf("expected redirect to /signin, got %s", got)
	}
}

func TestAdminCreateUser(t *testing.T) {
	env := newAdminEnv(t)

	resp := env.postForm(t, "/admin/users/new", url.Values{
		"username": {"carol"},
		"email":    {"carol@example.com"},
		"password": {"temp-pass"},
		"is_admin": {"on"},
	})
	resp.Body.Close()
	if got := location(t, resp); got != "/admin/users" {
		t.Errorf("expected redirect to /admin/users, got %s", got)
	}

	user, err := env.store.Users().GetByUsername("carol")
	if err != nil {
		t.Fatalf("expected user to exist: %v", err)
	}
	if !user.IsAdmin {
		t.Error("expected admin flag to be set")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("temp-pass")); err != nil {
		t.Errorf("stored hash does not verify the password: %v", err)
	}
}

func TestAdminCreateUser_PasswordRequired(t *testing.T) {
	env := newAdminEnv(t)

	resp := env.postForm(t, "/admin/users/new", url.Values{
		"username": {"carol"},
		"email":    {"carol@example.com"},
	})
	resp.Body.Close()
	if got := location(t, resp); got != "/admin/users/new" {
		t.Errorf("expected redirect back to the form, got %s", got)
	}

	if _, err := env.store.Users().GetByUsername("carol"); !errors.Is(err, store.ErrNotFound) {
		t.Error("expected no user record without a password")
	}
}

func TestAdminEditUser_BlankPasswordKeepsHash(t *testing.T) {
	env := newAdminEnv(t)
	user := env.createUser(t, "carol", "carol@example.com", "original", false)
	oldHash := user.PasswordHash

	resp := env.postForm(t, "/admin/users/"+user.ID+"/edit", url.Values{
		"username": {"caroline"},
		"email":    {"carol@example.com"},
	})
	resp.Body.Close()
	if got := location(t, resp); got != "/admin/users" {
		t.Errorf("expected redirect to /admin/users, got %s", got)
	}

	updated, err := env.store.Users().GetByID(user.ID)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if updated.Username != "caroline" {
		t.Errorf("expected username caroline, got %s", updated.Username)
	}
	if updated.PasswordHash != oldHash {
		t.Error("blank password must leave the stored hash unchanged")
	}
}

func TestAdminEditUser_NewPasswordRehashed(t *testing.T) {
	env := newAdminEnv(t)
	user := env.createUser(t, "carol", "carol@example.com", "original", false)

	resp := env.postForm(t, "/admin/users/"+user.ID+"/edit", url.Values{
		"username": {"carol"},
		"email":    {"carol@example.com"},
		"password": {"rotated"},
	})
	resp.Body.Close()

	updated, err := env.store.Users().GetByID(user.ID)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("rotated")); err != nil {
		t.Errorf("new password not stored: %v", err)
	}
}

func TestAdminDeleteUser_CascadesSessions(t *testing.T) {
	env := newAdminEnv(t)
	user := env.createUser(t, "carol", "carol@example.com", "secret", false)
	if err := env.store.Sessions().Create(&store.TranslationSession{
		ID: "sess-1", UserID: user.ID,
	}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	resp := env.postForm(t, "/admin/users/"+user.ID+"/delete", nil)
	resp.Body.Close()
	if got := location(t, resp); got != "/admin/users" {
		t.Errorf("expected redirect to /admin/users, got %s", got)
	}

	if _, err := env.store.Users().GetByID(user.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("expected user to be deleted")
	}
	if n, err := env.store.Sessions().CountForUser(user.ID); err != nil || n != 0 {
		t.Errorf("expected sessions to cascade, got n=%d err=%v", n, err)
	}
}

func TestStartOfDay_LocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2026, time.March, 14, 23, 59, 7, 0, loc)

	got := startOfDay(in)
	want := time.Date(2026, time.March, 14, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("startOfDay(%v) = %v, want %v", in, got, want)
	}
	if got.Location() != loc {
		t.Errorf("startOfDay changed location to %v", got.Location())
	}
}

func TestAdminIndex_ShowsStats(t *testing.T) {
	env := newAdminEnv(t)
	env.createUser(t, "alice", "alice@example.com", "secret", false)

	resp := env.get(t, "/admin/")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
