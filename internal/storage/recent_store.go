package storage

import (
	"database/sql"
	"fmt"
)

type SQLiteRecentStorage struct {
	db *sql.DB
}

func NewSQLiteRecentStorage(db *sql.DB) *SQLiteRecentStorage {
	return &SQLiteRecentStorage{db: db}
}

// RecentAdd moves path to the front of the list and keeps at most limit
// entries. A limit of zero or less keeps every entry.
func (rs *SQLiteRecentStorage) RecentAdd(path string, limit int) error {
	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO recent_files (path, seq)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM recent_files))
		ON CONFLICT(path) DO UPDATE SET seq = excluded.seq
	`, path)
	if err != nil {
		return fmt.Errorf("failed to add recent file: %w", err)
	}

	if limit > 0 {
		_, err = tx.Exec(`
			DELETE FROM recent_files
			WHERE path NOT IN (SELECT path FROM recent_files ORDER BY seq DESC LIMIT ?)
		`, limit)
		if err != nil {
			return fmt.Errorf("failed to trim recent files: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RecentList returns the most recently used paths first.
func (rs *SQLiteRecentStorage) RecentList(limit int) ([]string, error) {
	query := "SELECT path FROM recent_files ORDER BY seq DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent files: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan recent file row: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent files: %w", err)
	}
	return paths, nil
}

func (rs *SQLiteRecentStorage) RecentRemove(path string) error {
	if _, err := rs.db.Exec("DELETE FROM recent_files WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to remove recent file: %w", err)
	}
	return nil
}
