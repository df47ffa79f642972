package portal

import (
	"context"
	"encoding/gob"
	"log"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/adislis/handspeak/internal/store"
)

const (
	sessionName   = "handspeak-session"
	sessionUserID = "user_id"
	sessionState  = "oauth_state"
)

// flashMessage is a one-shot notice shown on the next rendered page.
type flashMessage struct {
	Category string // "success", "danger", "error"
	Message  string
}

func init() {
	gob.Register(flashMessage{})
}

type contextKey int

const userContextKey contextKey = 0

// userFrom returns the signed-in user attached to the request context, or
// nil when the request is anonymous.
func userFrom(ctx context.Context) *store.User {
	u, _ := ctx.Value(userContextKey).(*store.User)
	return u
}

func withUser(ctx context.Context, u *store.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func (s *Server) session(r *http.Request) *sessions.Session {
	// Get never fails for cookie stores beyond returning a fresh session.
	sess, _ := s.cookies.Get(r, sessionName)
	return sess
}

// signIn establishes the authenticated session for the user.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, userID string) {
	sess := s.session(r)
	sess.Values[sessionUserID] = userID
	if err := sess.Save(r, w); err != nil {
		log.Printf("save session: %v", err)
	}
}

// signOut clears the authenticated session.
func (s *Server) signOut(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	delete(sess.Values, sessionUserID)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		log.Printf("save session: %v", err)
	}
}

// flash queues a one-shot message for the next rendered page.
func (s *Server) flash(w http.ResponseWriter, r *http.Request, category, message string) {
	sess := s.session(r)
	sess.AddFlash(flashMessage{Category: category, Message: message})
	if err := sess.Save(r, w); err != nil {
		log.Printf("save session: %v", err)
	}
}

// popFlashes drains queued flash messages.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []flashMessage {
	sess := s.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		log.Printf("save session: %v", err)
	}

	flashes := make([]flashMessage, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(flashMessage); ok {
			flashes = append(flashes, msg)
		}
	}
	return flashes
}
