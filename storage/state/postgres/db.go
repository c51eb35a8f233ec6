package pgstate

import (
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core"
)

// Open connects to the state database.
func Open(conf *core.Config) (*sqlx.DB, error) {
	dbConf := conf.State.Database

	sslMode := "require"
	if dbConf.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   dbConf.Engine,
		User:     url.UserPassword(dbConf.User, dbConf.Password),
		Host:     dbConf.Address(),
		Path:     dbConf.Name,
		RawQuery: q.Encode(),
	}
	return sqlx.Open(dbConf.Engine, u.String())
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}
