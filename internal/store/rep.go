package store

import (
	"database/sql"
)

// Rep represents one persisted repetition.
type Rep struct {
	ID            int64
	SessionID     string
	ExerciseID    string
	RepIndex      int
	RepTimeS      float64
	AngleAchieved float64
	HasAngle      bool
	ROMRatio      float64
	FormScore     float64
	Trend         string
	CompletedAtMs int64
}

// RepRepository provides operations for persisted repetitions.
type RepRepository struct {
	db *sql.DB
}

// Reps returns the rep repository for this store.
func (s *Store) Reps() *RepRepository {
	return &RepRepository{db: s.db}
}

// Create inserts one completed repetition.
func (r *RepRepository) Create(rep *Rep) error {
	var angle sql.NullFloat64
	if rep.HasAngle {
		angle = sql.NullFloat64{Float64: rep.AngleAchieved, Valid: true}
	}

	result, err := r.db.Exec(
		`INSERT INTO reps (session_id, exercise_id, rep_index, rep_time_s,
		                   angle_achieved, rom_ratio, form_score, trend, completed_at_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.SessionID, rep.ExerciseID, rep.RepIndex, rep.RepTimeS,
		angle, rep.ROMRatio, rep.FormScore, rep.Trend, rep.CompletedAtMs,
	)
	if err != nil {
		return err
	}

	rep.ID, err = result.LastInsertId()
	return err
}

// ListBySession retrieves all reps for a session in completion order.
func (r *RepRepository) ListBySession(sessionID string) ([]*Rep, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, exercise_id, rep_index, rep_time_s,
		        angle_achieved, rom_ratio, form_score, trend, completed_at_ms
		 FROM reps WHERE session_id = ? ORDER BY completed_at_ms ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []*Rep
	for rows.Next() {
		rep := &Rep{}
		var angle sql.NullFloat64

		err := rows.Scan(
			&rep.ID, &rep.SessionID, &rep.ExerciseID, &rep.RepIndex, &rep.RepTimeS,
			&angle, &rep.ROMRatio, &rep.FormScore, &rep.Trend, &rep.CompletedAtMs,
		)
		if err != nil {
			return nil, err
		}
		if angle.Valid {
			rep.AngleAchieved = angle.Float64
			rep.HasAngle = true
		}
		reps = append(reps, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reps, nil
}
