package database

import (
	"context"
	"net/url"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/bhavyajain7773/ATF-Design/core"
	appfs "github.com/bhavyajain7773/ATF-Design/fs"
	"github.com/bhavyajain7773/ATF-Design/storage"
	dummydb "github.com/bhavyajain7773/ATF-Design/storage/database/dummy"
	sqlxrepos "github.com/bhavyajain7773/ATF-Design/storage/database/sqlx"
)

// Storage engines
const (
	EngineSQLite   = "sqlite3"
	EnginePostgres = "postgres"
	EngineMemory   = "memory"
)

var migrationsDir = "migrations"

func dataSourceName(conf *core.Config) (string, error) {
	switch conf.Storage.Engine {
	case EngineSQLite:
		if err := os.MkdirAll(conf.Storage.DataDir, 0o755); err != nil {
			return "", errors.Wrap(err, "creating data dir")
		}
		q := make(url.Values)
		q.Set("_busy_timeout", "5000")
		q.Set("_journal_mode", "WAL")
		return "file:" + conf.Storage.SQLitePath() + "?" + q.Encode(), nil

	case EnginePostgres:
		sslMode := "require"
		if conf.Storage.DisableTLS {
			sslMode = "disable"
		}
		q := make(url.Values)
		q.Set("sslmode", sslMode)
		q.Set("timezone", "utc")

		u := url.URL{
			Scheme:   conf.Storage.Engine,
			User:     url.UserPassword(conf.Storage.User, conf.Storage.Password),
			Host:     conf.Storage.Address(),
			Path:     conf.Storage.Name,
			RawQuery: q.Encode(),
		}
		return u.String(), nil
	}
	return "", errors.Errorf("unsupported storage engine %q", conf.Storage.Engine)
}

// Open connects to the SQL database configured in conf.
func Open(conf *core.Config) (*sqlx.DB, error) {
	dsn, err := dataSourceName(conf)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(conf.Storage.Engine, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if conf.Storage.Engine == EngineSQLite {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(ctx context.Context, db *sqlx.DB, maxAttempts int) error {
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		select {
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping canceled")
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// RunMigrations runs a goose command against the embedded migrations.
func RunMigrations(db *sqlx.DB, command string, args ...string) error {
	if err := goose.SetDialect(db.DriverName()); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.RunFS(command, db.DB, appfs.FS, migrationsDir, args...); err != nil {
		return errors.Wrapf(err, "running migrations %s", command)
	}
	return nil
}

func Migrate(db *sqlx.DB) error {
	return RunMigrations(db, "up")
}

// OpenBackend returns the storage backend configured in conf, migrated and ready.
// The returned close func releases it.
func OpenBackend(ctx context.Context, conf *core.Config) (storage.Backend, func() error, error) {
	if conf.Storage.Engine == EngineMemory {
		db, err := dummydb.Open()
		if err != nil {
			return nil, nil, err
		}
		return db, func() error { return nil }, nil
	}

	db, err := Open(conf)
	if err != nil {
		return nil, nil, err
	}
	if err := Ping(ctx, db, 30); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return sqlxrepos.NewRecordRepository(db), db.Close, nil
}
