package db

import (
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // sql driver name: "postgres"
)

const KVTable = "dashboard_kv"

const createKVTable = `CREATE TABLE IF NOT EXISTS ` + KVTable + ` (
	key     TEXT PRIMARY KEY,
	value   BYTEA NOT NULL,
	updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{
		db: db,
	}
}

// InitSchema creates the key/value table when missing.
func (pg *Postgres) InitSchema() error {
	_, err := pg.db.Exec(createKVTable)
	return err
}

func (pg *Postgres) Get(key string) ([]byte, error) {
	query := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("key", "value", "updated").
		From(KVTable).Where(sq.Eq{"key": key})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	var record KVRecord
	err = pg.db.Get(&record, sqlStr, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}

func (pg *Postgres) Set(key string, value []byte) error {
	query := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(KVTable).Columns("key", "value", "updated").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated = EXCLUDED.updated")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = pg.db.Exec(sqlStr, args...)
	return err
}

func (pg *Postgres) Delete(key string) error {
	query := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Delete(KVTable).Where(sq.Eq{"key": key})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = pg.db.Exec(sqlStr, args...)
	return err
}

func (pg *Postgres) Close() error {
	return pg.db.Close()
}
