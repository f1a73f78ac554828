package storage

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(t.TempDir(), "test.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecentFiles(t *testing.T) {
	s := newTestStore(t)
	for _, p := range []string{"a.json", "b.json", "c.json"} {
		if err := s.RecentAdd(p, 5); err != nil {
			t.Fatal(err)
		}
	}
	// Reopening a file moves it to the front
	if err := s.RecentAdd("a.json", 5); err != nil {
		t.Fatal(err)
	}
	got, err := s.RecentList(0)
	if err != nil {
		t.Fatal(err)
	}
	if want := "a.json,c.json,b.json"; strings.Join(got, ",") != want {
		t.Errorf("RecentList() = %v, want %s", got, want)
	}

	if err := s.RecentRemove("c.json"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.RecentList(1)
	if len(got) != 1 || got[0] != "a.json" {
		t.Errorf("RecentList(1) = %v", got)
	}
}

func TestRecentFilesLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 8; i++ {
		if err := s.RecentAdd(fmt.Sprintf("%d.json", i), 5); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.RecentList(0)
	if err != nil {
		t.Fatal(err)
	}
	if want := "7.json,6.json,5.json,4.json,3.json"; strings.Join(got, ",") != want {
		t.Errorf("RecentList() = %v, want %s", got, want)
	}
}

func TestDocuments(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.DocumentStorage.now = func() time.Time { return fixed }

	body := []byte(strings.Repeat(`{"nodes":[{"text":"Central Idea","x":400,"y":300}]}`, 20))
	info, err := s.DocumentPut("plan", body, 1)
	if err != nil {
		t.Fatal(err)
	}
	if info.Digest != Digest(body) || info.Size != len(body) {
		t.Errorf("DocumentPut() info = %+v", info)
	}

	got, gotInfo, err := s.DocumentGet("plan")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(body) {
		t.Error("body changed in storage")
	}
	if !gotInfo.UpdatedAt.Equal(fixed) || gotInfo.Nodes != 1 {
		t.Errorf("DocumentGet() info = %+v", gotInfo)
	}

	// Replacing keeps a single entry
	if _, err := s.DocumentPut("plan", []byte("{}"), 0); err != nil {
		t.Fatal(err)
	}
	s.DocumentPut("alpha", []byte("{}"), 0)
	list, err := s.DocumentList()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Size != 2 {
		t.Errorf("DocumentList() = %+v", list)
	}

	if ok, _ := s.DocumentExists("plan"); !ok {
		t.Error("plan should exist")
	}
	if err := s.DocumentDelete("plan"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.DocumentExists("plan"); ok {
		t.Error("plan should be gone")
	}
	if err := s.DocumentDelete("plan"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
	if _, _, err := s.DocumentGet("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DocumentGet(missing) = %v, want ErrNotFound", err)
	}
}

func TestDocumentDigestMismatch(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.DocumentPut("doc", []byte(`{"nodes":[]}`), 0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec("UPDATE documents SET digest = 'bad' WHERE name = 'doc'"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.DocumentGet("doc"); !errors.Is(err, ErrDigestMismatch) {
		t.Errorf("DocumentGet() = %v, want ErrDigestMismatch", err)
	}
}

func TestDocumentPutEmptyName(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.DocumentPut("", []byte("{}"), 0); err == nil {
		t.Error("empty names must be rejected")
	}
}
