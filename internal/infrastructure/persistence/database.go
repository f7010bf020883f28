package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gateway-console/internal/domain/errors"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// MySQLOptions describe a MySQL connection and its pool
type MySQLOptions struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// DSN returns the go-sql-driver DSN for the options
func (o MySQLOptions) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		o.User, o.Password, o.Host, o.Port, o.Database)
}

// OpenMySQL opens and pings a MySQL pool
func OpenMySQL(ctx context.Context, opts MySQLOptions) (*sql.DB, error) {
	db, err := sql.Open("mysql", opts.DSN())
	if err != nil {
		return nil, errors.NewUnavailableError("failed to open MySQL connection", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.MaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewUnavailableError("failed to reach MySQL", err)
	}
	return db, nil
}

// OpenSQLite opens the SQLite database file at path
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.NewUnavailableError("failed to open SQLite database", err)
	}
	// one writer at a time keeps SQLite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewUnavailableError("failed to open SQLite database", err)
	}
	return db, nil
}
