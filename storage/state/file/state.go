package filestate

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/integralforce/backend/core/account"
)

// SnapshotRepository persists the snapshot blob as one JSON file in a state
// directory; the browser localStorage analog and the default backend.
type SnapshotRepository struct {
	path string
}

var _ account.SnapshotRepository = (*SnapshotRepository)(nil)

func NewSnapshotRepository(dir string) *SnapshotRepository {
	return &SnapshotRepository{path: filepath.Join(dir, account.SnapshotKey+".json")}
}

func (repo *SnapshotRepository) Load() ([]byte, error) {
	data, err := ioutil.ReadFile(repo.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, account.ErrNoSnapshot
		}
		return nil, errors.Wrap(err, "reading snapshot file")
	}
	return data, nil
}

func (repo *SnapshotRepository) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(repo.path), 0o755); err != nil {
		return errors.Wrap(err, "creating state dir")
	}
	if err := ioutil.WriteFile(repo.path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing snapshot file")
	}
	return nil
}

func (repo *SnapshotRepository) Remove() error {
	if err := os.Remove(repo.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing snapshot file")
	}
	return nil
}
