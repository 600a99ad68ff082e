package sql

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/bsv-blockchain/go-coinview/errors"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

func initDB(logger ulogger.Logger, storeURL *url.URL) (*sql.DB, error) {
	switch storeURL.Scheme {
	case "postgres":
		return initPostgresDB(logger, storeURL)
	case "sqlite", "sqlitememory":
		return initSqliteDB(logger, storeURL)
	}

	return nil, errors.NewConfigurationError("db: unknown scheme: %s", storeURL.Scheme)
}

func initPostgresDB(logger ulogger.Logger, storeURL *url.URL) (*sql.DB, error) {
	dbHost := storeURL.Hostname()
	dbPort, _ := strconv.Atoi(storeURL.Port())
	dbName := strings.TrimPrefix(storeURL.Path, "/")

	var dbUser, dbPassword string
	if storeURL.User != nil {
		dbUser = storeURL.User.Username()
		dbPassword, _ = storeURL.User.Password()
	}

	sslMode := "disable"
	if val := storeURL.Query().Get("sslmode"); val != "" {
		sslMode = val
	}

	dbInfo := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=%s host=%s port=%d",
		dbUser, dbPassword, dbName, sslMode, dbHost, dbPort)

	db, err := sql.Open("postgres", dbInfo)
	if err != nil {
		return nil, errors.NewStorageError("failed to open postgres DB", err)
	}

	logger.Infof("Using postgres DB: %s@%s:%d/%s", dbUser, dbHost, dbPort, dbName)

	return db, nil
}

func initSqliteDB(logger ulogger.Logger, storeURL *url.URL) (*sql.DB, error) {
	var filename string

	if storeURL.Scheme == "sqlitememory" {
		dbName := strings.TrimPrefix(storeURL.Path, "/")
		filename = fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	} else {
		folder := "data"
		if err := os.MkdirAll(folder, 0755); err != nil {
			return nil, errors.NewStorageError("failed to create data folder %s", folder, err)
		}

		dbName := strings.TrimPrefix(storeURL.Path, "/")

		abs, err := filepath.Abs(filepath.Join(folder, fmt.Sprintf("%s.db", dbName)))
		if err != nil {
			return nil, errors.NewStorageError("failed to get absolute path for sqlite DB", err)
		}

		// Don't be tempted by a large busy_timeout. Fail fast.
		filename = fmt.Sprintf("%s?cache=shared&_pragma=busy_timeout=5000&_pragma=journal_mode=WAL", abs)
	}

	logger.Infof("Using sqlite DB: %s", filename)

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, errors.NewStorageError("failed to open sqlite DB", err)
	}

	if _, err = db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError("could not enable foreign keys support", err)
	}

	return db, nil
}

func createPostgresSchema(db *sql.DB) error {
	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS coins (
	     txid           BYTEA NOT NULL
	    ,vout           BIGINT NOT NULL
	    ,satoshis       BIGINT NOT NULL
	    ,height         BIGINT NOT NULL
	    ,coinbase       BOOLEAN NOT NULL
	    ,locking_script BYTEA NOT NULL
	    ,inserted_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	    ,PRIMARY KEY (txid, vout)
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create coins table", err)
	}

	return nil
}

func createSqliteSchema(db *sql.DB) error {
	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS coins (
	     txid           BLOB NOT NULL
	    ,vout           BIGINT NOT NULL
	    ,satoshis       BIGINT NOT NULL
	    ,height         BIGINT NOT NULL
	    ,coinbase       BOOLEAN NOT NULL
	    ,locking_script BLOB NOT NULL
	    ,inserted_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	    ,PRIMARY KEY (txid, vout)
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create coins table", err)
	}

	return nil
}

// rebind rewrites $n placeholders to ? for sqlite. Queries are written in
// postgres style.
func (s *Store) rebind(q string) string {
	if s.engine == "postgres" {
		return q
	}

	for i := 9; i >= 1; i-- {
		q = strings.ReplaceAll(q, fmt.Sprintf("$%d", i), "?")
	}

	return q
}
