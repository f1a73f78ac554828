package codec

import (
	"fmt"
	"os"
	"path/filepath"

	"mindnoscape/canvas-app/internal/tree"
)

// ReadFile loads a document, picking the format from the file extension. It
// also returns the raw file content.
func ReadFile(path string, opts tree.Options) (*tree.Tree, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read file: %w", ErrIOFailure, err)
	}
	t, err := Unmarshal(data, FormatFromPath(path), opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return t, data, nil
}

// WriteFile saves t, picking the format from the file extension, and returns
// the bytes written. The data goes to a temporary file next to path which is
// renamed over it, so a failed write leaves any previous file intact.
func WriteFile(path string, t *tree.Tree) ([]byte, error) {
	data, err := Marshal(t, FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	if err := WriteAtomic(path, data); err != nil {
		return nil, err
	}
	return data, nil
}

// WriteAtomic writes data to path through a temporary file and a rename.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file: %w", ErrIOFailure, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to write file: %w", ErrIOFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to sync file: %w", ErrIOFailure, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to close file: %w", ErrIOFailure, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to set file mode: %w", ErrIOFailure, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to replace file: %w", ErrIOFailure, err)
	}
	return nil
}
