package portal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adislis/handspeak/internal/store"
)

// dashboardView aggregates the signed-in user's translation activity.
type dashboardView struct {
	TotalSessions  int
	TotalDuration  int
	RecentSessions []*store.TranslationSession
	LastActive     *time.Time
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	sessions := s.store.Sessions()

	total, err := sessions.CountForUser(user.ID)
	if err != nil {
		log.Printf("dashboard count: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	duration, err := sessions.TotalDurationForUser(user.ID)
	if err != nil {
		log.Printf("dashboard duration: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	recent, err := sessions.RecentForUser(user.ID, 3)
	if err != nil {
		log.Printf("dashboard recent: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "dashboard.html", "Dashboard", dashboardView{
		TotalSessions:  total,
		TotalDuration:  duration,
		RecentSessions: recent,
		LastActive:     user.LastLogin,
	})
}

// handleLiveTranslation opens a new translation session and renders the
// live view carrying its identifier.
func (s *Server) handleLiveTranslation(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	sess := &store.TranslationSession{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		StartTime: time.Now().UTC(),
	}
	if err := s.store.Sessions().Create(sess); err != nil {
		log.Printf("create translation session: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "live_translation.html", "Live Translation", struct {
		SessionID string
	}{SessionID: sess.ID})
}

type sessionEndRequest struct {
	SessionID string `json:"session_id"`
}

// handleSessionEnd closes the caller's translation session. Closing an
// already-closed session is a no-op; closing someone else's is rejected.
func (s *Server) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req sessionEndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	err := s.store.WithTx(r.Context(), func(tx *sql.Tx) error {
		sessions := s.store.SessionsTx(tx)

		sess, err := sessions.GetForUser(req.SessionID, user.ID)
		if err != nil {
			return err
		}
		if sess.Closed() {
			// Idempotent: the first close already fixed the duration.
			return nil
		}

		end := time.Now().UTC()
		duration := int(end.Sub(sess.StartTime).Seconds())
		return sessions.Close(sess.ID, end, duration)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		log.Printf("end session: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
