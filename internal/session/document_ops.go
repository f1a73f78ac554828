package session

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mindnoscape/canvas-app/internal/codec"
	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/log"
	"mindnoscape/canvas-app/internal/render/raster"
	"mindnoscape/canvas-app/internal/render/svgexport"
	"mindnoscape/canvas-app/internal/storage"
	"mindnoscape/canvas-app/internal/tree"
)

// New replaces the document with a fresh root. The replacement is a commit,
// so it can be undone.
func (s *Session) New() error {
	s.replaceTree(tree.New(s.opts.RootLabel, s.opts.Tree), "")
	s.currentFile = ""
	s.libraryName = ""
	s.savedDigest = ""
	if err := s.commit(); err != nil {
		return err
	}
	s.modified = false
	s.logger.Info(s.ctx, "New document", nil)
	return nil
}

// Save writes the document to the file it was loaded from or last saved to.
func (s *Session) Save() error {
	if s.currentFile == "" {
		return ErrNoCurrentFile
	}
	return s.SaveAs(s.currentFile)
}

// SaveAs writes the document to path in the format implied by its extension
// and makes path the current file. A failed write leaves any existing file
// and the session state unchanged.
func (s *Session) SaveAs(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve path: %w", codec.ErrIOFailure, err)
	}
	data, err := codec.WriteFile(abs, s.tree)
	if err != nil {
		s.logger.Error(s.ctx, "Failed to save document", log.Fields{"path": abs, "error": err})
		return err
	}
	s.currentFile = abs
	s.savedDigest = storage.Digest(data)
	s.modified = false
	s.addRecent(abs)
	s.logger.Info(s.ctx, "Document saved", log.Fields{"path": abs, "nodes": s.tree.Len()})
	return nil
}

// Load replaces the document with the one stored at path. On any failure the
// current document stays active.
func (s *Session) Load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve path: %w", codec.ErrIOFailure, err)
	}
	t, data, err := codec.ReadFile(abs, s.opts.Tree)
	if err != nil {
		s.logger.Error(s.ctx, "Failed to load document", log.Fields{"path": abs, "error": err})
		return err
	}
	s.replaceTree(t, abs)
	s.currentFile = abs
	s.libraryName = ""
	s.savedDigest = storage.Digest(data)
	if err := s.commit(); err != nil {
		return err
	}
	s.modified = false
	s.addRecent(abs)
	s.logger.Info(s.ctx, "Document loaded", log.Fields{"path": abs, "nodes": t.Len()})
	return nil
}

// LoadRecent loads a file from the recent list. A file that no longer exists
// is dropped from the list.
func (s *Session) LoadRecent(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve path: %w", codec.ErrIOFailure, err)
	}
	if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
		s.removeRecent(abs)
		return fmt.Errorf("%w: recent file is gone: %w", codec.ErrIOFailure, err)
	}
	return s.Load(abs)
}

// Reload reads the current file again, discarding unsaved edits.
func (s *Session) Reload() error {
	if s.currentFile == "" {
		return ErrNoCurrentFile
	}
	return s.Load(s.currentFile)
}

// ChangedOnDisk reports whether the current file holds something other than
// what this session last loaded or saved.
func (s *Session) ChangedOnDisk() (bool, error) {
	if s.currentFile == "" {
		return false, ErrNoCurrentFile
	}
	data, err := os.ReadFile(s.currentFile)
	if err != nil {
		return false, fmt.Errorf("%w: failed to read file: %w", codec.ErrIOFailure, err)
	}
	return storage.Digest(data) != s.savedDigest, nil
}

// Export writes a picture or a copy of the document to path. The format is
// chosen by extension: .svg, .png, .json, .xml, .yaml or .yml. The current
// file is not changed.
func (s *Session) Export(path string) error {
	var buf bytes.Buffer
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".svg":
		if err := svgexport.Write(&buf, s.canvas); err != nil {
			return fmt.Errorf("failed to export svg: %w", err)
		}
	case ".png":
		b := s.canvas.Bounds()
		pad := float64(svgexport.Padding)
		region := geometry.NewRect(b.Min.X-pad, b.Min.Y-pad, b.Width()+2*pad, b.Height()+2*pad)
		if err := raster.WritePNG(&buf, s.canvas, raster.Options{Region: region}); err != nil {
			return fmt.Errorf("failed to export png: %w", err)
		}
	case ".json", ".xml", ".yaml", ".yml":
		data, err := codec.Marshal(s.tree, codec.FormatFromPath(path))
		if err != nil {
			return err
		}
		buf.Write(data)
	default:
		return fmt.Errorf("%w: cannot export to %q files", tree.ErrInvalidOperation, ext)
	}
	if err := codec.WriteAtomic(path, buf.Bytes()); err != nil {
		return err
	}
	s.logger.Info(s.ctx, "Document exported", log.Fields{"path": path, "bytes": buf.Len()})
	return nil
}

// Recent returns the recently used files, most recent first.
func (s *Session) Recent() []string {
	return append([]string(nil), s.recent...)
}

func (s *Session) addRecent(path string) {
	list := []string{path}
	for _, p := range s.recent {
		if p != path {
			list = append(list, p)
		}
	}
	if len(list) > s.opts.RecentLimit {
		list = list[:s.opts.RecentLimit]
	}
	s.recent = list
	if s.store != nil {
		if err := s.store.RecentAdd(path, s.opts.RecentLimit); err != nil {
			s.logger.Warn(s.ctx, "Failed to record recent file", log.Fields{"path": path, "error": err})
		}
	}
}

func (s *Session) removeRecent(path string) {
	list := s.recent[:0]
	for _, p := range s.recent {
		if p != path {
			list = append(list, p)
		}
	}
	s.recent = list
	if s.store != nil {
		if err := s.store.RecentRemove(path); err != nil {
			s.logger.Warn(s.ctx, "Failed to remove recent file", log.Fields{"path": path, "error": err})
		}
	}
}
