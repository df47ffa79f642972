package portal

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adislis/handspeak/internal/store"
)

// adminIndexView aggregates signup and login activity for the admin landing page.
type adminIndexView struct {
	TotalUsers    int
	NewUsersToday int
	RecentUsers   []*store.User
}

// startOfDay truncates t to midnight in its own location, so "new users
// today" follows the server's local calendar day.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *Server) handleAdminIndex(w http.ResponseWriter, r *http.Request) {
	users := s.store.Users()

	total, err := users.Count()
	if err != nil {
		log.Printf("admin count: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	newToday, err := users.CountFirstLoginSince(startOfDay(time.Now()))
	if err != nil {
		log.Printf("admin new today: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	recent, err := users.RecentByLastLogin(5)
	if err != nil {
		log.Printf("admin recent: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "admin_index.html", "Admin Dashboard", adminIndexView{
		TotalUsers:    total,
		NewUsersToday: newToday,
		RecentUsers:   recent,
	})
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.Users().List()
	if err != nil {
		log.Printf("admin list users: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "admin_users.html", "Users", users)
}

func (s *Server) handleAdminUserNewForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "admin_user_form.html", "New User", &store.User{})
}

func (s *Server) handleAdminUserCreate(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	isAdmin := r.FormValue("is_admin") == "on"

	if username == "" || email == "" {
		s.flash(w, r, "error", "Username and email are required.")
		http.Redirect(w, r, "/admin/users/new", http.StatusSeeOther)
		return
	}
	if password == "" {
		s.flash(w, r, "error", "Password is required when creating a new user.")
		http.Redirect(w, r, "/admin/users/new", http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	err = s.store.Users().Create(&store.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	})
	if err != nil {
		s.flash(w, r, "error", "Could not create user: username or email already exists.")
		http.Redirect(w, r, "/admin/users/new", http.StatusSeeOther)
		return
	}

	s.flash(w, r, "success", "User created.")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (s *Server) handleAdminUserEditForm(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.Users().GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "admin_user_form.html", "Edit User", user)
}

func (s *Server) handleAdminUserUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.Users().GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if v := r.FormValue("username"); v != "" {
		user.Username = v
	}
	if v := r.FormValue("email"); v != "" {
		user.Email = v
	}
	user.IsAdmin = r.FormValue("is_admin") == "on"

	// A blank password leaves the stored hash untouched.
	if password := r.FormValue("password"); password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("hash password: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := s.store.Users().Update(user); err != nil {
		s.flash(w, r, "error", "Could not update user.")
		http.Redirect(w, r, "/admin/users/"+user.ID+"/edit", http.StatusSeeOther)
		return
	}

	s.flash(w, r, "success", "User updated.")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (s *Server) handleAdminUserDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Users().Delete(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.flash(w, r, "success", "User deleted.")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
