package portal

import (
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is passed to every template render.
type pageData struct {
	Title   string
	User    *viewUser
	Flashes []flashMessage
	Data    any
}

// viewUser is the template-facing shape of the signed-in user.
type viewUser struct {
	ID       string
	Username string
	Email    string
	IsAdmin  bool
}

var templates = map[string]*template.Template{}

func init() {
	pages := []string{
		"home.html", "about.html", "careers.html", "contact.html",
		"faq.html", "privacy.html", "terms.html",
		"register.html", "signin.html", "practice.html", "account.html",
		"dashboard.html", "live_translation.html",
		"admin_index.html", "admin_users.html", "admin_user_form.html",
	}
	for _, page := range pages {
		templates[page] = template.Must(template.ParseFS(templateFS,
			"templates/layout.html", "templates/"+page))
	}
}

// render writes the named page wrapped in the base layout.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, title string, data any) {
	tmpl, ok := templates[page]
	if !ok {
		log.Printf("unknown template %q", page)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pd := pageData{
		Title:   title,
		Flashes: s.popFlashes(w, r),
		Data:    data,
	}
	if u := userFrom(r.Context()); u != nil {
		pd.User = &viewUser{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", pd); err != nil {
		log.Printf("render %s: %v", page, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}
