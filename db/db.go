package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

func NewConn(driver, dsn string) (*sql.DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one writer at a time, a visit runs in one transaction
		db.SetMaxOpenConns(1)
	}
	err = initDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initDB(db *sql.DB) error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS visitor_counter (
	name VARCHAR(64) PRIMARY KEY,
	value BIGINT NOT NULL DEFAULT 0
	)`,
		`CREATE TABLE IF NOT EXISTS visitor_session (
	id VARCHAR(36) PRIMARY KEY,
	last_visit TIMESTAMP NOT NULL
	)`,
		`CREATE INDEX IF NOT EXISTS idx_last_visit ON visitor_session(last_visit)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
