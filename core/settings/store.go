package settings

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var ErrNoSnapshot = errors.New("no settings snapshot")

type fileStore struct {
	path string
}

var _ SnapshotStore = (*fileStore)(nil)

// NewFileStore keeps the snapshot as a single JSON document at path.
func NewFileStore(path string) SnapshotStore {
	return &fileStore{path: path}
}

func (fs *fileStore) Load() (Settings, error) {
	b, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, ErrNoSnapshot
		}
		return Settings{}, errors.Wrap(err, "reading settings snapshot")
	}
	var s Settings
	if err = json.Unmarshal(b, &s); err != nil {
		return Settings{}, errors.Wrap(err, "decoding settings snapshot")
	}
	return s, nil
}

// Save replaces the snapshot file atomically.
func (fs *fileStore) Save(s Settings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding settings snapshot")
	}
	if err = os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return errors.Wrap(err, "creating settings snapshot dir")
	}
	tmp := fs.path + ".tmp"
	if err = os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrap(err, "writing settings snapshot")
	}
	return errors.Wrap(os.Rename(tmp, fs.path), "replacing settings snapshot")
}
