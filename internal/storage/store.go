// Package storage persists application state that lives outside document
// files: the recent files list and a library of named documents.
package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a named document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDigestMismatch is returned when a stored document fails verification.
	ErrDigestMismatch = errors.New("digest mismatch")
)

// DocumentInfo describes a document stored in the library.
type DocumentInfo struct {
	Name      string
	Size      int // uncompressed size in bytes
	Nodes     int
	Digest    string
	UpdatedAt time.Time
}

type RecentStore interface {
	RecentAdd(path string, limit int) error
	RecentList(limit int) ([]string, error)
	RecentRemove(path string) error
}

type DocumentStore interface {
	DocumentPut(name string, data []byte, nodes int) (DocumentInfo, error)
	DocumentGet(name string) ([]byte, DocumentInfo, error)
	DocumentList() ([]DocumentInfo, error)
	DocumentDelete(name string) error
	DocumentExists(name string) (bool, error)
}

type Store interface {
	RecentStore
	DocumentStore
	Close() error
}
