package inmemstate

import (
	"sync"

	"github.com/integralforce/backend/core/account"
)

// SnapshotRepository keeps the snapshot blob in memory; used in tests.
type SnapshotRepository struct {
	mutex sync.RWMutex
	data  []byte
}

var _ account.SnapshotRepository = (*SnapshotRepository)(nil)

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (repo *SnapshotRepository) Load() ([]byte, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if repo.data == nil {
		return nil, account.ErrNoSnapshot
	}
	data := make([]byte, len(repo.data))
	copy(data, repo.data)
	return data, nil
}

func (repo *SnapshotRepository) Save(data []byte) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.data = make([]byte, len(data))
	copy(repo.data, data)
	return nil
}

func (repo *SnapshotRepository) Remove() error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.data = nil
	return nil
}
