// Package localdb is the local sqlite database holding the transaction log
// and user settings
package localdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/zeebo/errs"
)

// Error is the error class for database failures.
var Error = errs.Class("localdb")

const (
	dbVersion = 2
)

const schemaV1 = `
CREATE TABLE metadata (
	version INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE transactions (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	total_amount TEXT NOT NULL,
	success_count INTEGER NOT NULL,
	failed_count INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	recipients TEXT NOT NULL
);
`

const schemaV2 = `
CREATE TABLE settings (
	key TEXT NOT NULL PRIMARY KEY,
	value TEXT NOT NULL
);
`

type DB struct {
	db *sql.DB
}

// Open opens the database at path, creating it if it does not exist.
func Open(ctx context.Context, path string) (*DB, error) {
	_, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := initDB(ctx, path); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, Error.Wrap(err)
	}
	return OpenDB(ctx, path, false)
}

// OpenInMemory returns an empty database that lives as long as the DB.
func OpenInMemory(ctx context.Context) (*DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, Error.Wrap(err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	if err := createSchema(ctx, db); err != nil {
		return nil, errs.Combine(err, db.Close())
	}
	return &DB{db: db}, nil
}

func OpenDB(ctx context.Context, path string, readOnly bool) (_ *DB, err error) {
	db, err := openDB(path, readOnly)
	if err != nil {
		return nil, err
	}
	defer func() {
		if db != nil && err != nil {
			err = errs.Combine(err, db.Close())
		}
	}()

	version, err := readVersion(ctx, db)
	if err != nil {
		return nil, err
	}

	switch {
	case version < dbVersion:
		if readOnly {
			return nil, Error.New("database version %d requires migration; open read-write", version)
		}
		// Database is old. Migrate forward.
		if err := migrateDB(ctx, db, version); err != nil {
			return nil, err
		}
	case version > dbVersion:
		// Database version is from a future tool. It is not safe to continue.
		return nil, Error.New("database version is in the future (%d); upgrade your tool (%d)", version, dbVersion)
	}

	return &DB{db: db}, nil
}

func (db *DB) Close() error {
	return Error.Wrap(db.db.Close())
}

// Version returns the schema version recorded in the database.
func (db *DB) Version(ctx context.Context) (int, error) {
	return readVersion(ctx, db.db)
}

// WithTx runs fn in a transaction. The transaction is committed if fn
// returns nil and rolled back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return Error.Wrap(err)
	}
	defer func() {
		if err == nil {
			err = Error.Wrap(tx.Commit())
		} else {
			err = errs.Combine(err, ignoreDone(tx.Rollback()))
		}
	}()
	return fn(tx)
}

// Setting returns the value stored under key.
func (db *DB) Setting(ctx context.Context, key string) (value string, ok bool, err error) {
	err = db.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, Error.Wrap(err)
	}
	return value, true, nil
}

func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return Error.Wrap(err)
}

func initDB(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Error.Wrap(err)
	}
	tmpPath := path + ".tmp"
	db, err := openDB(tmpPath, false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := createSchema(ctx, db); err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(os.Rename(tmpPath, path))
}

func createSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{schemaV1, schemaV2} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return Error.Wrap(err)
		}
	}
	_, err := db.ExecContext(ctx, `INSERT INTO metadata (version, created_at) VALUES (?, ?)`,
		dbVersion, time.Now().UTC().Format(time.RFC3339))
	return Error.Wrap(err)
}

func openDB(path string, readOnly bool) (*sql.DB, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	dbURI := "file:" + path + "?_journal_mode=WAL&_foreign_keys=true&_locking_mode=EXCLUSIVE"
	if readOnly {
		dbURI += "&mode=ro"
	}
	db, err := sql.Open("sqlite3", dbURI)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	// exclusive locking mode allows a single connection
	db.SetMaxOpenConns(1)
	return db, nil
}

func readVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT version FROM metadata LIMIT 1`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, Error.New("database metadata is missing")
	case err != nil:
		return 0, Error.Wrap(err)
	}
	return version, nil
}

func migrateDB(ctx context.Context, db *sql.DB, version int) error {
	from := version
	for from < dbVersion {
		to := from + 1
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return Error.Wrap(err)
		}

		switch to {
		case 2:
			err = migrateV2(ctx, tx)
		default:
			err = Error.New("no migration to version %d available", to)
		}
		if err == nil {
			_, err = tx.ExecContext(ctx, `UPDATE metadata SET version = ?`, to)
		}
		if err != nil {
			return errs.Combine(Error.Wrap(err), tx.Rollback())
		}
		if err := tx.Commit(); err != nil {
			return Error.Wrap(err)
		}

		from = to
	}
	return nil
}

func migrateV2(ctx context.Context, tx *sql.Tx) error {
	// version 2 added the settings table
	_, err := tx.ExecContext(ctx, schemaV2)
	return err
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
