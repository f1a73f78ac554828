package storage

import (
	"bytes"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pierrec/lz4"
	"golang.org/x/crypto/blake2b"
)

// SQLiteDocumentStorage keeps named documents. Bodies are stored lz4
// compressed together with the blake2b-256 digest of the uncompressed bytes.
type SQLiteDocumentStorage struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteDocumentStorage(db *sql.DB) *SQLiteDocumentStorage {
	return &SQLiteDocumentStorage{db: db, now: time.Now}
}

// Digest returns the hex encoded blake2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}

// DocumentPut stores data under name, replacing any previous version.
func (ds *SQLiteDocumentStorage) DocumentPut(name string, data []byte, nodes int) (DocumentInfo, error) {
	if name == "" {
		return DocumentInfo{}, fmt.Errorf("document name cannot be empty")
	}

	body, err := compress(data)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("failed to compress document: %w", err)
	}

	info := DocumentInfo{
		Name:      name,
		Size:      len(data),
		Nodes:     nodes,
		Digest:    Digest(data),
		UpdatedAt: ds.now().UTC(),
	}

	_, err = ds.db.Exec(`
		INSERT INTO documents (name, body, size, nodes, digest, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			size = excluded.size,
			nodes = excluded.nodes,
			digest = excluded.digest,
			updated_at = excluded.updated_at
	`, info.Name, body, info.Size, info.Nodes, info.Digest, info.UpdatedAt.UnixNano())
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("failed to store document: %w", err)
	}
	return info, nil
}

// DocumentGet returns the uncompressed body of name after verifying its digest.
func (ds *SQLiteDocumentStorage) DocumentGet(name string) ([]byte, DocumentInfo, error) {
	var (
		body    []byte
		info    DocumentInfo
		updated int64
	)
	err := ds.db.QueryRow(
		"SELECT name, body, size, nodes, digest, updated_at FROM documents WHERE name = ?", name,
	).Scan(&info.Name, &body, &info.Size, &info.Nodes, &info.Digest, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, DocumentInfo{}, fmt.Errorf("document '%s': %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, DocumentInfo{}, fmt.Errorf("failed to get document: %w", err)
	}
	info.UpdatedAt = time.Unix(0, updated).UTC()

	data, err := decompress(body)
	if err != nil {
		return nil, DocumentInfo{}, fmt.Errorf("failed to decompress document '%s': %w", name, err)
	}
	if Digest(data) != info.Digest {
		return nil, DocumentInfo{}, fmt.Errorf("document '%s': %w", name, ErrDigestMismatch)
	}
	return data, info, nil
}

// DocumentList returns all documents ordered by name.
func (ds *SQLiteDocumentStorage) DocumentList() ([]DocumentInfo, error) {
	rows, err := ds.db.Query("SELECT name, size, nodes, digest, updated_at FROM documents ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var (
			info    DocumentInfo
			updated int64
		)
		if err := rows.Scan(&info.Name, &info.Size, &info.Nodes, &info.Digest, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		info.UpdatedAt = time.Unix(0, updated).UTC()
		docs = append(docs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

func (ds *SQLiteDocumentStorage) DocumentDelete(name string) error {
	result, err := ds.db.Exec("DELETE FROM documents WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document '%s': %w", name, ErrNotFound)
	}
	return nil
}

func (ds *SQLiteDocumentStorage) DocumentExists(name string) (bool, error) {
	var count int
	err := ds.db.QueryRow("SELECT COUNT(*) FROM documents WHERE name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check if document exists: %w", err)
	}
	return count > 0, nil
}
