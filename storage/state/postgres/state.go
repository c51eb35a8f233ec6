package pgstate

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core/account"
)

const schema = `
CREATE TABLE IF NOT EXISTS account_snapshot (
    key        TEXT PRIMARY KEY,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// SnapshotRepository persists the snapshot blob in a single-row table.
type SnapshotRepository struct {
	db *sqlx.DB
}

var _ account.SnapshotRepository = (*SnapshotRepository)(nil)

func NewSnapshotRepository(db *sqlx.DB) (*SnapshotRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "creating account_snapshot table")
	}
	return &SnapshotRepository{db: db}, nil
}

func (repo *SnapshotRepository) Load() ([]byte, error) {
	var data []byte
	err := repo.db.Get(&data, `SELECT data FROM account_snapshot WHERE key = $1`, account.SnapshotKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, account.ErrNoSnapshot
		}
		return nil, errors.Wrap(err, "loading snapshot row")
	}
	return data, nil
}

func (repo *SnapshotRepository) Save(data []byte) error {
	_, err := repo.db.Exec(
		`INSERT INTO account_snapshot (key, data, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		account.SnapshotKey, data,
	)
	return errors.Wrap(err, "saving snapshot row")
}

func (repo *SnapshotRepository) Remove() error {
	_, err := repo.db.Exec(`DELETE FROM account_snapshot WHERE key = $1`, account.SnapshotKey)
	return errors.Wrap(err, "removing snapshot row")
}
