package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per workout session
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			exercise_id TEXT NOT NULL,
			started_at_ms INTEGER NOT NULL,
			ended_at_ms INTEGER,
			duration_s REAL NOT NULL DEFAULT 0,
			total_reps INTEGER NOT NULL DEFAULT 0,
			skipped_exercises INTEGER NOT NULL DEFAULT 0,
			avg_form_quality REAL NOT NULL DEFAULT 0,
			avg_rom REAL NOT NULL DEFAULT 0,
			adjustments_made INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Reps table - one row per completed repetition
		`CREATE TABLE IF NOT EXISTS reps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			exercise_id TEXT NOT NULL,
			rep_index INTEGER NOT NULL,
			rep_time_s REAL NOT NULL,
			angle_achieved REAL,
			rom_ratio REAL NOT NULL,
			form_score REAL NOT NULL,
			trend TEXT NOT NULL DEFAULT '',
			completed_at_ms INTEGER NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_reps_session_id ON reps(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_exercise_id ON sessions(exercise_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
