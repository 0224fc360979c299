package shared

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// NewDatabase opens the configured database. SQLite databases are migrated
// on open; MySQL schemas are managed outside the service.
func NewDatabase(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case DriverMySQL, "":
		return openMySQL(cfg)
	case DriverSQLite:
		return openSQLite(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openMySQL(cfg DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		mysqlCfg := mysql.NewConfig()
		mysqlCfg.User = cfg.User
		mysqlCfg.Passwd = cfg.Password
		mysqlCfg.Net = "tcp"
		mysqlCfg.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
		mysqlCfg.DBName = cfg.Name
		mysqlCfg.ParseTime = true
		dsn = mysqlCfg.FormatDSN()
	}

	db, err := sql.Open(DriverMySQL, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(60 * time.Minute)

	return db, nil
}

func openSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}

	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}

	return db, nil
}

// CommitOrRollback finishes tx depending on the error the caller ended with.
// Use it as `defer shared.CommitOrRollback(tx, &err)`.
func CommitOrRollback(tx *sql.Tx, errp *error) {
	if errp != nil && *errp != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Failed to rollback transaction", "err", rbErr)
		}
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("Failed to commit transaction", "err", err)
		if errp != nil {
			*errp = err
		}
	}
}

// IsDuplicateEntry reports whether err is a unique constraint violation on
// either supported driver.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return false
}
