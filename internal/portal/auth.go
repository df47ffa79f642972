package portal

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adislis/handspeak/internal/store"
)

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if userFrom(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, r, "register.html", "Register", nil)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if userFrom(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	if username == "" || email == "" || password == "" {
		s.flash(w, r, "danger", "All fields are required.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	err = s.store.WithTx(r.Context(), func(tx *sql.Tx) error {
		users := s.store.UsersTx(tx)

		if taken, err := identityTaken(users, username, email); err != nil {
			return err
		} else if taken {
			return errIdentityTaken
		}

		return users.Create(&store.User{
			ID:            uuid.NewString(),
			Username:      username,
			Email:         email,
			PasswordHash:  string(hash),
			AgreedTermsAt: &now,
		})
	})
	if err != nil {
		if errors.Is(err, errIdentityTaken) {
			s.flash(w, r, "danger", "Username or email already exists.")
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}
		log.Printf("register: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.flash(w, r, "success", "Your account has been created! You can now log in.")
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

var errIdentityTaken = errors.New("username or email already exists")

func identityTaken(users *store.UserRepository, username, email string) (bool, error) {
	if _, err := users.GetByUsername(username); err == nil {
		return true, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if _, err := users.GetByEmail(email); err == nil {
		return true, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	return false, nil
}

func (s *Server) handleSigninForm(w http.ResponseWriter, r *http.Request) {
	if u := userFrom(r.Context()); u != nil {
		http.Redirect(w, r, homeFor(u), http.StatusSeeOther)
		return
	}
	s.render(w, r, "signin.html", "Sign in", nil)
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	if u := userFrom(r.Context()); u != nil {
		http.Redirect(w, r, homeFor(u), http.StatusSeeOther)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := s.store.Users().GetByEmail(email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("signin lookup: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// OAuth-only accounts carry no local hash and never pass this path.
	if user == nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.flash(w, r, "danger", "Login unsuccessful. Please check email and password.")
		s.render(w, r, "signin.html", "Sign in", nil)
		return
	}

	if err := s.store.Users().RecordLogin(user.ID, time.Now().UTC()); err != nil {
		log.Printf("record login: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.signIn(w, r, user.ID)
	http.Redirect(w, r, homeFor(user), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.signOut(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// homeFor routes admins to the admin panel and everyone else to the
// user dashboard.
func homeFor(u *store.User) string {
	if u.IsAdmin {
		return "/admin/"
	}
	return "/dashboard"
}
