// Package storage provides SQLite-based persistence for shift records and
// careers. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

// sqliteTime is the layout SQLite uses for CURRENT_TIMESTAMP.
const sqliteTime = "2006-01-02 15:04:05"

// ErrNotFound is returned by LoadProfile for an unknown player.
var ErrNotFound = career.ErrNotFound

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS shifts (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			shift_type TEXT NOT NULL,
			reactor_type TEXT NOT NULL,
			success INTEGER NOT NULL,
			cause TEXT NOT NULL,
			temperature REAL NOT NULL,
			pressure REAL NOT NULL,
			containment REAL NOT NULL,
			hull REAL NOT NULL,
			survival REAL NOT NULL,
			reward INTEGER NOT NULL,
			credited INTEGER NOT NULL,
			promoted INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_shifts_player ON shifts(player);
		CREATE INDEX IF NOT EXISTS idx_shifts_top ON shifts(reward DESC);

		CREATE TABLE IF NOT EXISTS careers (
			player TEXT PRIMARY KEY,
			depth_credits INTEGER NOT NULL DEFAULT 0,
			total_credits INTEGER NOT NULL DEFAULT 0,
			rank TEXT NOT NULL,
			tier INTEGER NOT NULL DEFAULT 1,
			last_promotion_rank TEXT NOT NULL,
			total_shifts INTEGER NOT NULL DEFAULT 0,
			successful_shifts INTEGER NOT NULL DEFAULT 0,
			total_survival REAL NOT NULL DEFAULT 0,
			hull REAL NOT NULL DEFAULT 100,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_careers_total ON careers(total_credits DESC);

		CREATE TABLE IF NOT EXISTS career_upgrades (
			player TEXT NOT NULL REFERENCES careers(player) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			upgrade TEXT NOT NULL,
			PRIMARY KEY (player, position)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveShift archives a finished shift. A zero CreatedAt uses the database clock.
func (s *Store) SaveShift(rec career.ShiftRecord) error {
	var createdAt any
	if !rec.CreatedAt.IsZero() {
		createdAt = rec.CreatedAt.UTC().Format(sqliteTime)
	}

	_, err := s.db.Exec(
		`INSERT INTO shifts
		 (id, player, shift_type, reactor_type, success, cause, temperature, pressure, containment,
		  hull, survival, reward, credited, promoted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))`,
		rec.ID, rec.Player, rec.ShiftType, rec.ReactorType, rec.Success, string(rec.Cause),
		rec.Temperature, rec.Pressure, rec.Containment,
		rec.Hull, rec.Survival, rec.Reward, rec.Credited, rec.Promoted, createdAt,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save shift: %w", err)
	}
	return nil
}

// RecordShift implements career.ShiftRecorder.
func (s *Store) RecordShift(rec career.ShiftRecord) error {
	return s.SaveShift(rec)
}

const shiftColumns = `id, player, shift_type, reactor_type, success, cause, temperature, pressure,
	containment, hull, survival, reward, credited, promoted, created_at`

// RecentShifts returns the newest shifts, optionally for one player.
func (s *Store) RecentShifts(player string, limit int) ([]career.ShiftRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows *sql.Rows
		err  error
	)
	if player == "" {
		rows, err = s.db.Query(
			`SELECT `+shiftColumns+` FROM shifts ORDER BY created_at DESC, rowid DESC LIMIT ?`,
			limit,
		)
	} else {
		rows, err = s.db.Query(
			`SELECT `+shiftColumns+` FROM shifts WHERE player = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
			player, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query shifts: %w", err)
	}
	return scanShifts(rows)
}

// TopShifts returns the best-paying shifts.
func (s *Store) TopShifts(limit int) ([]career.ShiftRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+shiftColumns+` FROM shifts ORDER BY reward DESC, created_at ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query top shifts: %w", err)
	}
	return scanShifts(rows)
}

func scanShifts(rows *sql.Rows) ([]career.ShiftRecord, error) {
	defer rows.Close()

	var out []career.ShiftRecord
	for rows.Next() {
		var (
			r         career.ShiftRecord
			cause     string
			createdAt any
		)
		if err := rows.Scan(
			&r.ID, &r.Player, &r.ShiftType, &r.ReactorType, &r.Success, &cause,
			&r.Temperature, &r.Pressure, &r.Containment,
			&r.Hull, &r.Survival, &r.Reward, &r.Credited, &r.Promoted, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Cause = reactor.Cause(cause)
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// PlayerStats contains aggregated shift statistics for one player.
type PlayerStats struct {
	Player        string    `json:"player"`
	Shifts        int       `json:"shifts"`
	Successes     int       `json:"successes"`
	BestReward    int       `json:"best_reward"`
	TotalCredited int64     `json:"total_credited"`
	TotalSurvival float64   `json:"total_survival"`
	LastPlayed    time.Time `json:"last_played"`
}

// PlayerStats aggregates a player's archived shifts.
func (s *Store) PlayerStats(player string) (*PlayerStats, error) {
	stats := &PlayerStats{Player: player}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(success), 0), COALESCE(MAX(reward), 0),
		        COALESCE(SUM(credited), 0), COALESCE(SUM(survival), 0), MAX(created_at)
		 FROM shifts WHERE player = ?`,
		player,
	).Scan(&stats.Shifts, &stats.Successes, &stats.BestReward, &stats.TotalCredited, &stats.TotalSurvival, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// LoadProfile implements career.Repository.
func (s *Store) LoadProfile(player string) (career.Profile, error) {
	var p career.Profile
	err := s.db.QueryRow(
		`SELECT player, depth_credits, total_credits, rank, tier, last_promotion_rank,
		        total_shifts, successful_shifts, total_survival, hull
		 FROM careers WHERE player = ?`,
		player,
	).Scan(
		&p.Player, &p.DepthCredits, &p.TotalCredits, &p.Rank, &p.Tier, &p.LastPromotionRank,
		&p.TotalShifts, &p.SuccessfulShifts, &p.TotalSurvival, &p.Hull,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return career.Profile{}, fmt.Errorf("storage: %w: %s", ErrNotFound, player)
	}
	if err != nil {
		return career.Profile{}, fmt.Errorf("storage: cannot load career: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT upgrade FROM career_upgrades WHERE player = ? ORDER BY position`,
		player,
	)
	if err != nil {
		return career.Profile{}, fmt.Errorf("storage: cannot load upgrades: %w", err)
	}
	defer rows.Close()

	p.Upgrades = []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return career.Profile{}, fmt.Errorf("storage: cannot scan upgrade: %w", err)
		}
		p.Upgrades = append(p.Upgrades, u)
	}
	if err := rows.Err(); err != nil {
		return career.Profile{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return p, nil
}

// SaveProfile implements career.Repository. The career row and its
// upgrade list are replaced in one transaction.
func (s *Store) SaveProfile(p career.Profile) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.Exec(
		`INSERT INTO careers
		 (player, depth_credits, total_credits, rank, tier, last_promotion_rank,
		  total_shifts, successful_shifts, total_survival, hull)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(player) DO UPDATE SET
		   depth_credits = excluded.depth_credits,
		   total_credits = excluded.total_credits,
		   rank = excluded.rank,
		   tier = excluded.tier,
		   last_promotion_rank = excluded.last_promotion_rank,
		   total_shifts = excluded.total_shifts,
		   successful_shifts = excluded.successful_shifts,
		   total_survival = excluded.total_survival,
		   hull = excluded.hull,
		   updated_at = CURRENT_TIMESTAMP`,
		p.Player, p.DepthCredits, p.TotalCredits, p.Rank, p.Tier, p.LastPromotionRank,
		p.TotalShifts, p.SuccessfulShifts, p.TotalSurvival, p.Hull,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save career: %w", err)
	}

	if _, err = tx.Exec(`DELETE FROM career_upgrades WHERE player = ?`, p.Player); err != nil {
		return fmt.Errorf("storage: cannot clear upgrades: %w", err)
	}
	for i, u := range p.Upgrades {
		if _, err = tx.Exec(
			`INSERT INTO career_upgrades (player, position, upgrade) VALUES (?, ?, ?)`,
			p.Player, i, u,
		); err != nil {
			return fmt.Errorf("storage: cannot save upgrade: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit career: %w", err)
	}
	return nil
}

// CareerSummary is a leaderboard row.
type CareerSummary struct {
	Player           string  `json:"player"`
	Rank             string  `json:"rank"`
	TotalCredits     int     `json:"total_credits"`
	TotalShifts      int     `json:"total_shifts"`
	SuccessfulShifts int     `json:"successful_shifts"`
	TotalSurvival    float64 `json:"total_survival"`
}

// TopCareers ranks players by lifetime credits.
func (s *Store) TopCareers(limit int) ([]CareerSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT player, rank, total_credits, total_shifts, successful_shifts, total_survival
		 FROM careers
		 ORDER BY total_credits DESC, player ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query careers: %w", err)
	}
	defer rows.Close()

	var out []CareerSummary
	for rows.Next() {
		var c CareerSummary
		if err := rows.Scan(&c.Player, &c.Rank, &c.TotalCredits, &c.TotalShifts, &c.SuccessfulShifts, &c.TotalSurvival); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(sqliteTime, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var (
	_ career.Repository    = (*Store)(nil)
	_ career.ShiftRecorder = (*Store)(nil)
)
