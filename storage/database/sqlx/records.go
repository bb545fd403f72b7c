package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/storage"
)

// pq error code for disk_full
const pqDiskFull = "53100"

// RecordRepository stores records in the `records` table.
type RecordRepository struct {
	db *sqlx.DB
}

var _ storage.Backend = (*RecordRepository)(nil)

func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (repo *RecordRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	q := repo.db.Rebind(`SELECT value FROM records WHERE name = ?`)
	if err := repo.db.GetContext(ctx, &value, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "selecting record")
	}
	return []byte(value), true, nil
}

func (repo *RecordRepository) Set(ctx context.Context, key string, value []byte) error {
	q := repo.db.Rebind(`
		INSERT INTO records (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if _, err := repo.db.ExecContext(ctx, q, key, string(value), core.NowFunc().UTC()); err != nil {
		if isFull(err) {
			return errors.Wrap(storage.ErrQuotaExceeded, err.Error())
		}
		return errors.Wrap(err, "upserting record")
	}
	return nil
}

func (repo *RecordRepository) SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	q := repo.db.Rebind(`
		INSERT INTO records (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO NOTHING`)
	res, err := repo.db.ExecContext(ctx, q, key, string(value), core.NowFunc().UTC())
	if err != nil {
		if isFull(err) {
			return false, errors.Wrap(storage.ErrQuotaExceeded, err.Error())
		}
		return false, errors.Wrap(err, "inserting record")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "counting inserted records")
	}
	return n == 1, nil
}

func (repo *RecordRepository) Remove(ctx context.Context, key string) error {
	q := repo.db.Rebind(`DELETE FROM records WHERE name = ?`)
	if _, err := repo.db.ExecContext(ctx, q, key); err != nil {
		return errors.Wrap(err, "deleting record")
	}
	return nil
}

func (repo *RecordRepository) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM records WHERE name IN (?)`, keys)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting records")
	}
	return nil
}

// isFull reports whether err means the database ran out of space.
func isFull(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrFull
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqDiskFull
	}
	return false
}
