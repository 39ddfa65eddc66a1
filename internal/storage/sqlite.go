// Package storage keeps the best record of each level in SQLite through the
// pure-Go modernc.org/sqlite driver, so the binary builds without cgo.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

// Store is a core.ScoreStore backed by one SQLite file. database/sql makes
// it safe to share between sessions.
type Store struct {
	db *sql.DB
}

// Record is a stored best result together with its level id.
type Record struct {
	LevelID   int
	core.ScoreRecord
	UpdatedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	level_id    INTEGER PRIMARY KEY,
	best_moves  INTEGER NOT NULL,
	best_secs   INTEGER NOT NULL DEFAULT 0,
	player_name TEXT NOT NULL DEFAULT '',
	updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// Open opens the database at dbPath, creating the file, its directory and
// the records table as needed. A leading ~ means the home directory.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite allows a single writer and every session shares this store.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot create records table: %w", err)
	}

	return &Store{db: db}, nil
}

func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, rest), nil
}

// Close releases the database. Calling it on a zero Store is a no-op.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetRecord implements core.ScoreStore.
func (s *Store) GetRecord(levelID int) (core.ScoreRecord, bool, error) {
	var rec core.ScoreRecord
	err := s.db.QueryRow(
		"SELECT best_moves, best_secs, player_name FROM records WHERE level_id = ?",
		levelID,
	).Scan(&rec.BestMoveCount, &rec.BestElapsedSeconds, &rec.PlayerName)

	if errors.Is(err, sql.ErrNoRows) {
		return core.ScoreRecord{}, false, nil
	}
	if err != nil {
		return core.ScoreRecord{}, false, fmt.Errorf("storage: cannot query record: %w", err)
	}

	return rec, true, nil
}

const upsertIfBetter = `
INSERT INTO records (level_id, best_moves, best_secs, player_name, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(level_id) DO UPDATE SET
	best_moves  = excluded.best_moves,
	best_secs   = excluded.best_secs,
	player_name = excluded.player_name,
	updated_at  = excluded.updated_at
WHERE excluded.best_moves < records.best_moves`

// PutIfBetter implements core.ScoreStore. The comparison runs inside the
// upsert, so concurrent sessions cannot replace a better record.
func (s *Store) PutIfBetter(levelID int, rec core.ScoreRecord) (bool, error) {
	res, err := s.db.Exec(upsertIfBetter,
		levelID, rec.BestMoveCount, rec.BestElapsedSeconds, rec.PlayerName,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot save record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot save record: %w", err)
	}
	return n > 0, nil
}

// AllRecords lists the stored records by level id.
func (s *Store) AllRecords() ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT level_id, best_moves, best_secs, player_name, updated_at
		 FROM records
		 ORDER BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var updatedAt any
		if err := rows.Scan(&r.LevelID, &r.BestMoveCount, &r.BestElapsedSeconds, &r.PlayerName, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.UpdatedAt = parseTime(updatedAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ClearRecords drops every record.
func (s *Store) ClearRecords() error {
	if _, err := s.db.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("storage: cannot clear records: %w", err)
	}
	return nil
}

// parseTime accepts the DATETIME column either already parsed by the driver
// or as SQLite's text form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var _ core.ScoreStore = (*Store)(nil)
