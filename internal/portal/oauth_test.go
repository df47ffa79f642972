package portal

import (
	"testing"
	"time"

	"github.com/adislis/handspeak/internal/store"
)

func seedUsername(t *testing.T, st *store.Store, name string) {
	t.Helper()
	now := time.Now().UTC()
	if err := st.Users().Create(&store.User{
		ID:            name + "-id",
		Username:      name,
		Email:         name + "@example.com",
		AgreedTermsAt: &now,
	}); err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
}

func TestUsernameBase(t *testing.T) {
	cases := map[string]string{
		"jane.doe@gmail.com": "jane.doe",
		"nodomain":           "nodomain",
		"@leadingat":         "@leadingat",
	}
	for email, want := range cases {
		if got := usernameBase(email); got != want {
			t.Errorf("usernameBase(%q) = %q, want %q", email, got, want)
		}
	}
}

func TestUniqueUsername_BaseFree(t *testing.T) {
	env := newTestEnv(t)

	got, err := uniqueUsername(env.store.Users(), "jane", func(int) int {
		t.Fatal("random suffix must not be consulted when the base is free")
		return 0
	})
	if err != nil {
		t.Fatalf("uniqueUsername: %v", err)
	}
	if got != "jane" {
		t.Errorf("expected jane, got %s", got)
	}
}

func TestUniqueUsername_RandomSuffixOnCollision(t *testing.T) {
	env := newTestEnv(t)
	seedUsername(t, env.store, "jane")

	// intn(900) -> 123, so the first candidate is jane223.
	got, err := uniqueUsername(env.store.Users(), "jane", func(int) int { return 123 })
	if err != nil {
		t.Fatalf("uniqueUsername: %v", err)
	}
	if got != "jane223" {
		t.Errorf("expected jane223, got %s", got)
	}
}

func TestUniqueUsername_CounterFallback(t *testing.T) {
	env := newTestEnv(t)
	seedUsername(t, env.store, "jane")
	seedUsername(t, env.store, "jane100")

	// Every random attempt lands on the taken jane100, so the
	// deterministic counter takes over.
	got, err := uniqueUsername(env.store.Users(), "jane", func(int) int { return 0 })
	if err != nil {
		t.Fatalf("uniqueUsername: %v", err)
	}
	if got != "jane2" {
		t.Errorf("expected jane2, got %s", got)
	}
}

func TestUniqueUsername_CounterSkipsTaken(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"jane", "jane100", "jane2", "jane3"} {
		seedUsername(t, env.store, name)
	}

	got, err := uniqueUsername(env.store.Users(), "jane", func(int) int { return 0 })
	if err != nil {
		t.Fatalf("uniqueUsername: %v", err)
	}
	if got != "jane4" {
		t.Errorf("expected jane4, got %s", got)
	}
}
