package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/repcoach/internal/store"
)

// SessionHandler handles HTTP requests for session resources.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

type sessionResponse struct {
	ID               string  `json:"id"`
	ExerciseID       string  `json:"exercise_id"`
	StartedAtMs      int64   `json:"started_at_ms"`
	EndedAtMs        int64   `json:"ended_at_ms,omitempty"`
	Ended            bool    `json:"ended"`
	DurationS        float64 `json:"duration_s"`
	TotalReps        int     `json:"total_reps"`
	SkippedExercises int     `json:"skipped_exercises"`
	AvgFormQuality   float64 `json:"avg_form_quality"`
	AvgROM           float64 `json:"avg_rom"`
	AdjustmentsMade  int     `json:"adjustments_made"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

func toSessionResponse(sess *store.Session) sessionResponse {
	return sessionResponse{
		ID:               sess.ID,
		ExerciseID:       sess.ExerciseID,
		StartedAtMs:      sess.StartedAtMs,
		EndedAtMs:        sess.EndedAtMs,
		Ended:            sess.Ended,
		DurationS:        sess.Summary.DurationS,
		TotalReps:        sess.Summary.TotalReps,
		SkippedExercises: sess.Summary.SkippedExercises,
		AvgFormQuality:   sess.Summary.AvgFormQuality,
		AvgROM:           sess.Summary.AvgROM,
		AdjustmentsMade:  sess.Summary.AdjustmentsMade,
	}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/sessions or /api/sessions/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/sessions and returns all sessions, newest first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, sess := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(sess))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Sessions().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
