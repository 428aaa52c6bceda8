// Package persist is the on-disk snapshot boundary. The store is
// serialized as a single JSON document; the format is owned here and
// nowhere else.
package persist

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/newsline/newsline/internal/model"
)

// Persister loads a snapshot once at process start and saves one after
// every successful mutating request. Save failures are logged by the
// caller and never surfaced to clients.
type Persister interface {
	Load() (*model.Snapshot, error)
	Save(snap *model.Snapshot) error
}

// FileStore reads and writes the snapshot at a fixed path.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the snapshot. A missing file is not an error: it just
// means the process starts empty.
func (f *FileStore) Load() (*model.Snapshot, error) {
	raw, err := ioutil.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}

	return &snap, nil
}

// Save writes the snapshot to a temp file and renames it into place,
// so a crash mid-write never leaves a truncated snapshot behind.
func (f *FileStore) Save(snap *model.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}

	tmp := f.Path + ".tmp"
	if err := ioutil.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, f.Path)
}

// Noop disables persistence. Used when IS_TEST_MODE is set.
type Noop struct{}

// Load implements Persister.
func (Noop) Load() (*model.Snapshot, error) { return nil, nil }

// Save implements Persister.
func (Noop) Save(*model.Snapshot) error { return nil }
