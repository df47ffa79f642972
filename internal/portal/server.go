// Package portal implements the Handspeak web application: accounts,
// translation-session tracking, the admin panel and the public pages.
package portal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"github.com/adislis/handspeak/internal/store"
)

// Config holds the portal server configuration.
type Config struct {
	Store      *store.Store
	SessionKey string
	StaticDir  string
	OAuth      *GoogleOAuth

	// SecureCookies marks the session cookie Secure. Leave false when
	// serving plain HTTP or browsers will drop the cookie and sign-in
	// will never stick.
	SecureCookies bool
}

// Server is the portal's HTTP server.
type Server struct {
	store   *store.Store
	cookies *sessions.CookieStore
	oauth   *GoogleOAuth
	router  chi.Router
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		store:   config.Store,
		cookies: sessions.NewCookieStore([]byte(config.SessionKey)),
		oauth:   config.OAuth,
	}
	// NewCookieStore defaults Secure to true, which silently kills the
	// session over plain HTTP.
	s.cookies.Options.Secure = config.SecureCookies
	s.cookies.Options.HttpOnly = true
	s.cookies.Options.SameSite = http.SameSiteLaxMode

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.loadUser)

	// Public pages
	r.Get("/", s.handlePage("home.html", "Handspeak"))
	r.Get("/about", s.handlePage("about.html", "About"))
	r.Get("/careers", s.handlePage("careers.html", "Careers"))
	r.Get("/contact", s.handlePage("contact.html", "Contact"))
	r.Get("/faq", s.handlePage("faq.html", "FAQ"))
	r.Get("/privacy", s.handlePage("privacy.html", "Privacy"))
	r.Get("/terms", s.handlePage("terms.html", "Terms"))

	// Auth
	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Get("/signin", s.handleSigninForm)
	r.Post("/signin", s.handleSignin)
	r.Get("/logout", s.handleLogout)
	if s.oauth != nil {
		r.Get("/auth/google", s.handleOAuthStart)
		r.Get("/auth/google/callback", s.handleOAuthCallback)
	}

	// Signed-in pages
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/practice", s.handlePage("practice.html", "Practice"))
		r.Get("/account", s.handlePage("account.html", "Account"))
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/live-translation", s.handleLiveTranslation)
		r.Post("/session/end", s.handleSessionEnd)
	})

	// Admin panel
	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/", s.handleAdminIndex)
		r.Get("/users", s.handleAdminUsers)
		r.Get("/users/new", s.handleAdminUserNewForm)
		r.Post("/users/new", s.handleAdminUserCreate)
		r.Get("/users/{id}/edit", s.handleAdminUserEditForm)
		r.Post("/users/{id}/edit", s.handleAdminUserUpdate)
		r.Post("/users/{id}/delete", s.handleAdminUserDelete)
	})

	// Static assets if configured
	if config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(config.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static", fileServer))
	}

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// handlePage renders a static informational page.
func (s *Server) handlePage(page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, page, title, nil)
	}
}
