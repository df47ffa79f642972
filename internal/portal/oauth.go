package portal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/adislis/handspeak/internal/store"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleOAuth drives the Google sign-in flow.
type GoogleOAuth struct {
	config      *oauth2.Config
	userinfoURL string
}

// NewGoogleOAuth creates the Google OAuth flow configuration.
func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userinfoURL: googleUserinfoURL,
	}
}

func (s *Server) handleOAuthStart(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	sess := s.session(r)
	sess.Values[sessionState] = state
	if err := sess.Save(r, w); err != nil {
		log.Printf("save session: %v", err)
	}

	http.Redirect(w, r, s.oauth.config.AuthCodeURL(state), http.StatusSeeOther)
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	wantState, _ := sess.Values[sessionState].(string)
	delete(sess.Values, sessionState)
	if err := sess.Save(r, w); err != nil {
		log.Printf("save session: %v", err)
	}

	if wantState == "" || r.URL.Query().Get("state") != wantState {
		s.flash(w, r, "danger", "Sign-in request could not be verified. Please try again.")
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	token, err := s.oauth.config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.Printf("oauth exchange: %v", err)
		s.flash(w, r, "danger", "Google sign-in failed. Please try again.")
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	email, err := s.oauth.fetchEmail(r.Context(), token)
	if err != nil {
		log.Printf("oauth userinfo: %v", err)
		s.flash(w, r, "danger", "Google sign-in failed. Please try again.")
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	user, err := s.findOrProvisionUser(r, email, token)
	if err != nil {
		log.Printf("oauth provisioning: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.store.Users().RecordLogin(user.ID, time.Now().UTC()); err != nil {
		log.Printf("record login: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.signIn(w, r, user.ID)
	s.flash(w, r, "success", "Successfully signed in with Google!")
	http.Redirect(w, r, homeFor(user), http.StatusSeeOther)
}

func (g *GoogleOAuth) fetchEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	client := g.config.Client(ctx, token)
	resp, err := client.Get(g.userinfoURL)
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return "", errors.New("userinfo missing email")
	}

	return info.Email, nil
}

// findOrProvisionUser looks up the account by email, creating it on first
// OAuth sign-in, and stores the provider token blob.
func (s *Server) findOrProvisionUser(r *http.Request, email string, token *oauth2.Token) (*store.User, error) {
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return nil, fmt.Errorf("serialize token: %w", err)
	}

	var user *store.User
	err = s.store.WithTx(r.Context(), func(tx *sql.Tx) error {
		users := s.store.UsersTx(tx)

		user, err = users.GetByEmail(email)
		if errors.Is(err, store.ErrNotFound) {
			username, nameErr := uniqueUsername(users, usernameBase(email), rand.Intn)
			if nameErr != nil {
				return nameErr
			}

			now := time.Now().UTC()
			user = &store.User{
				ID:            uuid.NewString(),
				Username:      username,
				Email:         email,
				AgreedTermsAt: &now,
			}
			if err := users.Create(user); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		return s.store.OAuthTokensTx(tx).Upsert(&store.OAuthToken{
			ID:       uuid.NewString(),
			Provider: "google",
			UserID:   user.ID,
			Token:    string(tokenJSON),
		})
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func usernameBase(email string) string {
	if idx := strings.IndexByte(email, '@'); idx > 0 {
		return email[:idx]
	}
	return email
}

// randomSuffixAttempts bounds the random phase of collision resolution
// before falling back to a deterministic counter.
const randomSuffixAttempts = 5

// maxCounterSuffix caps the deterministic fallback so a pathological
// database cannot spin this loop forever.
const maxCounterSuffix = 10000

// uniqueUsername picks a free username starting from base. Collisions get a
// random 3-digit suffix for a bounded number of attempts, then a numeric
// counter so the outcome is deterministic under sustained collision.
func uniqueUsername(users *store.UserRepository, base string, intn func(int) int) (string, error) {
	free := func(name string) (bool, error) {
		_, err := users.GetByUsername(name)
		if errors.Is(err, store.ErrNotFound) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		return false, nil
	}

	if ok, err := free(base); err != nil {
		return "", err
	} else if ok {
		return base, nil
	}

	for i := 0; i < randomSuffixAttempts; i++ {
		candidate := fmt.Sprintf("%s%d", base, 100+intn(900))
		if ok, err := free(candidate); err != nil {
			return "", err
		} else if ok {
			return candidate, nil
		}
	}

	for i := 2; i <= maxCounterSuffix; i++ {
		candidate := fmt.Sprintf("%s%d", base, i)
		if ok, err := free(candidate); err != nil {
			return "", err
		} else if ok {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free username for %q", base)
}
