package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/repcoach/internal/store"
)

// RepsHandler handles HTTP requests for per-session rep listings.
type RepsHandler struct {
	store *store.Store
}

// NewRepsHandler creates a new RepsHandler with the given store.
func NewRepsHandler(s *store.Store) *RepsHandler {
	return &RepsHandler{store: s}
}

type repResponse struct {
	RepIndex      int      `json:"rep_index"`
	ExerciseID    string   `json:"exercise_id"`
	RepTimeS      float64  `json:"rep_time_s"`
	AngleAchieved *float64 `json:"angle_achieved,omitempty"`
	ROMRatio      float64  `json:"rom_ratio"`
	FormScore     float64  `json:"form_score"`
	Trend         string   `json:"trend"`
	CompletedAtMs int64    `json:"completed_at_ms"`
}

type listRepsResponse struct {
	SessionID string        `json:"session_id"`
	Reps      []repResponse `json:"reps"`
}

func toRepResponse(rep *store.Rep) repResponse {
	resp := repResponse{
		RepIndex:      rep.RepIndex,
		ExerciseID:    rep.ExerciseID,
		RepTimeS:      rep.RepTimeS,
		ROMRatio:      rep.ROMRatio,
		FormScore:     rep.FormScore,
		Trend:         rep.Trend,
		CompletedAtMs: rep.CompletedAtMs,
	}
	if rep.HasAngle {
		angle := rep.AngleAchieved
		resp.AngleAchieved = &angle
	}
	return resp
}

// ServeHTTP handles GET /api/sessions/{id}/reps.
func (h *RepsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	id := strings.TrimSuffix(path, "/reps")
	if id == "" || id == path {
		writeError(w, http.StatusBadRequest, "Invalid path")
		return
	}

	// A rep listing for an unknown session is a 404, not an empty list.
	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	reps, err := h.store.Reps().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list reps")
		return
	}

	response := listRepsResponse{
		SessionID: id,
		Reps:      make([]repResponse, 0, len(reps)),
	}
	for _, rep := range reps {
		response.Reps = append(response.Reps, toRepResponse(rep))
	}

	writeJSON(w, http.StatusOK, response)
}
