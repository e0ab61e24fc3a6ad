package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/store-pos/internal/core/domain"
)

// MySQL error numbers the adapter reacts to.
const (
	errDupEntry        = 1062
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
	errCheckConstraint = 3819
)

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// LockWaitTimeout bounds how long a transaction waits for a row lock
	// before failing with domain.ErrLockTimeout. Zero keeps the server default.
	LockWaitTimeout time.Duration
}

// OpenMySQL opens and pings a pool. parseTime and clientFoundRows are
// forced on: dates are scanned into time.Time and UPDATE reports matched
// rows, which the adapter uses to detect missing IDs.
func OpenMySQL(ctx context.Context, dsn string, opts PoolOptions) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	if opts.LockWaitTimeout > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		secs := int(opts.LockWaitTimeout.Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}
		cfg.Params["innodb_lock_wait_timeout"] = fmt.Sprint(secs)
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("new connector: %w", err)
	}
	db := sql.OpenDB(connector)

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// wrapErr maps driver errors onto the domain taxonomy.
func wrapErr(op string, err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errLockWaitTimeout, errDeadlock:
			return fmt.Errorf("%s: %w", op, domain.ErrLockTimeout)
		case errCheckConstraint:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, me.Message)
		}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func dateString(t time.Time) string {
	return t.Format(time.DateOnly)
}
