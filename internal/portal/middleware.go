package portal

import (
	"errors"
	"net/http"

	"github.com/adislis/handspeak/internal/store"
)

// loadUser resolves the session's user and attaches it to the request
// context. Anonymous requests pass through unchanged.
func (s *Server) loadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		userID, ok := sess.Values[sessionUserID].(string)
		if !ok || userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.store.Users().GetByID(userID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			// Stale cookie for a deleted account.
			s.signOut(w, r)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// requireAuth redirects anonymous requests to the sign-in page.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userFrom(r.Context()) == nil {
			s.flash(w, r, "danger", "Please sign in to access that page.")
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin turns away signed-in users without the admin flag.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r.Context())
		if user == nil {
			s.flash(w, r, "danger", "Please sign in to access that page.")
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		if !user.IsAdmin {
			s.flash(w, r, "danger", "You do not have permission to access the Admin Panel.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
