// Package api provides HTTP API handlers for the rep tracking system.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/repcoach/internal/exercise"
)

// ExerciseHandler serves the exercise catalog.
type ExerciseHandler struct {
	catalog *exercise.Catalog
}

// NewExerciseHandler creates a new ExerciseHandler over the given catalog.
func NewExerciseHandler(c *exercise.Catalog) *ExerciseHandler {
	return &ExerciseHandler{catalog: c}
}

type exerciseResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	RepTarget     int      `json:"rep_target"`
	MinConfidence float64  `json:"min_confidence"`
	FormChecks    []string `json:"form_checks"`
}

type listExercisesResponse struct {
	Exercises []exerciseResponse `json:"exercises"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toExerciseResponse(cfg *exercise.Config) exerciseResponse {
	checks := make([]string, 0, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		checks = append(checks, rule.Check)
	}
	return exerciseResponse{
		ID:            cfg.ID,
		Name:          cfg.Name,
		Kind:          string(cfg.Tracking.Kind()),
		RepTarget:     cfg.RepTarget,
		MinConfidence: cfg.MinConfidence,
		FormChecks:    checks,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ServeHTTP implements the http.Handler interface.
func (h *ExerciseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Expected paths: /api/exercises or /api/exercises/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/exercises")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, path)
}

// list handles GET /api/exercises and returns the catalog in file order.
func (h *ExerciseHandler) list(w http.ResponseWriter, r *http.Request) {
	configs := h.catalog.List()

	response := listExercisesResponse{
		Exercises: make([]exerciseResponse, 0, len(configs)),
	}
	for _, cfg := range configs {
		response.Exercises = append(response.Exercises, toExerciseResponse(cfg))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/exercises/{id}.
func (h *ExerciseHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	cfg, ok := h.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Exercise not found")
		return
	}
	writeJSON(w, http.StatusOK, toExerciseResponse(cfg))
}
