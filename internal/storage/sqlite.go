package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db              *sql.DB
	RecentStorage   *SQLiteRecentStorage
	DocumentStorage *SQLiteDocumentStorage
}

// NewSQLiteStore opens or creates the database file dbFile inside dbDir.
func NewSQLiteStore(dbDir, dbFile string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory '%s': %w", dbDir, err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify database connection: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.RecentStorage = NewSQLiteRecentStorage(db)
	store.DocumentStorage = NewSQLiteDocumentStorage(db)

	return store, nil
}

func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS recent_files (
			path TEXT PRIMARY KEY,
			seq INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			size INTEGER NOT NULL,
			nodes INTEGER NOT NULL,
			digest TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentAdd(path string, limit int) error {
	return s.RecentStorage.RecentAdd(path, limit)
}

func (s *SQLiteStore) RecentList(limit int) ([]string, error) {
	return s.RecentStorage.RecentList(limit)
}

func (s *SQLiteStore) RecentRemove(path string) error {
	return s.RecentStorage.RecentRemove(path)
}

func (s *SQLiteStore) DocumentPut(name string, data []byte, nodes int) (DocumentInfo, error) {
	return s.DocumentStorage.DocumentPut(name, data, nodes)
}

func (s *SQLiteStore) DocumentGet(name string) ([]byte, DocumentInfo, error) {
	return s.DocumentStorage.DocumentGet(name)
}

func (s *SQLiteStore) DocumentList() ([]DocumentInfo, error) {
	return s.DocumentStorage.DocumentList()
}

func (s *SQLiteStore) DocumentDelete(name string) error {
	return s.DocumentStorage.DocumentDelete(name)
}

func (s *SQLiteStore) DocumentExists(name string) (bool, error) {
	return s.DocumentStorage.DocumentExists(name)
}
