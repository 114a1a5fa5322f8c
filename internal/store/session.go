package store

import (
	"database/sql"
	"errors"

	"github.com/ayusman/repcoach/internal/perf"
)

// Session represents a workout session row.
type Session struct {
	ID          string
	ExerciseID  string
	StartedAtMs int64
	EndedAtMs   int64
	Ended       bool
	Summary     perf.SessionSummary
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new, still-running session.
func (r *SessionRepository) Create(sess *Session) error {
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, exercise_id, started_at_ms) VALUES (?, ?, ?)`,
		sess.ID, sess.ExerciseID, sess.StartedAtMs,
	)
	return err
}

// Finish records the end-of-session summary.
func (r *SessionRepository) Finish(id string, endedAtMs int64, summary perf.SessionSummary) error {
	result, err := r.db.Exec(
		`UPDATE sessions
		 SET ended_at_ms = ?, duration_s = ?, total_reps = ?, skipped_exercises = ?,
		     avg_form_quality = ?, avg_rom = ?, adjustments_made = ?
		 WHERE id = ?`,
		endedAtMs, summary.DurationS, summary.TotalReps, summary.SkippedExercises,
		summary.AvgFormQuality, summary.AvgROM, summary.AdjustmentsMade, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSession(row *sql.Row) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullInt64

	err := row.Scan(
		&sess.ID, &sess.ExerciseID, &sess.StartedAtMs, &endedAt,
		&sess.Summary.DurationS, &sess.Summary.TotalReps, &sess.Summary.SkippedExercises,
		&sess.Summary.AvgFormQuality, &sess.Summary.AvgROM, &sess.Summary.AdjustmentsMade,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		sess.EndedAtMs = endedAt.Int64
		sess.Ended = true
	}
	return sess, nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, exercise_id, started_at_ms, ended_at_ms,
		        duration_s, total_reps, skipped_exercises,
		        avg_form_quality, avg_rom, adjustments_made
		 FROM sessions WHERE id = ?`,
		id,
	)
	return scanSession(row)
}

// List retrieves all sessions, most recent first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, exercise_id, started_at_ms, ended_at_ms,
		        duration_s, total_reps, skipped_exercises,
		        avg_form_quality, avg_rom, adjustments_made
		 FROM sessions ORDER BY started_at_ms DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var endedAt sql.NullInt64

		err := rows.Scan(
			&sess.ID, &sess.ExerciseID, &sess.StartedAtMs, &endedAt,
			&sess.Summary.DurationS, &sess.Summary.TotalReps, &sess.Summary.SkippedExercises,
			&sess.Summary.AvgFormQuality, &sess.Summary.AvgROM, &sess.Summary.AdjustmentsMade,
		)
		if err != nil {
			return nil, err
		}
		if endedAt.Valid {
			sess.EndedAtMs = endedAt.Int64
			sess.Ended = true
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Delete removes a session and, via cascade, its reps.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
