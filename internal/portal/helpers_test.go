package portal

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/adislis/handspeak/internal/store"
)

// testEnv is a portal server running against a throwaway database, with a
// client that keeps cookies and does not follow redirects.
type testEnv struct {
	store  *store.Store
	server *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(New(Config{Store: st, SessionKey: "test-key"}))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}

	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testEnv{store: st, server: srv, client: client}
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) postJSON(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := e.client.Post(e.server.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// createUser inserts a user with a usable password directly into the store.
func (e *testEnv) createUser(t *testing.T, username, email, password string, isAdmin bool) *store.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	u := &store.User{
		ID:            username + "-id",
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		IsAdmin:       isAdmin,
		AgreedTermsAt: &now,
	}
	if err := e.store.Users().Create(u); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

// signin authenticates the client's cookie jar as the given user.
func (e *testEnv) signin(t *testing.T, email, password string) {
	t.Helper()

	resp := e.postForm(t, "/signin", url.Values{
		"email":    {email},
		"password": {password},
	})
	resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("signin: expected redirect, got %d", resp.StatusCode)
	}
}

func location(t *testing.T, resp *http.Response) string {
	t.Helper()
	loc, err := resp.Location()
	if err != nil {
		t.Fatalf("expected Location header: %v", err)
	}
	return loc.Path
}
