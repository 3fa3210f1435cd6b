package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
)

// Driver is a MySQL implementation of database.Conn backed by database/sql.
// One Driver serves one introspection run.
type Driver struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// New opens a single-connection MySQL handle using the provided Config.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	// Describe and both catalog lookups run sequentially on one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &Driver{db: db, queryTimeout: cfg.QueryTimeout}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

// Open wraps an existing *sql.DB. Used by tests with go-sqlmock.
func Open(db *sql.DB) *Driver {
	return &Driver{db: db}
}

// --- database.Conn implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func (d *Driver) Close() error {
	return d.db.Close()
}

func (d *Driver) Describe(ctx context.Context, query string) ([]database.ColumnDescriptor, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	cols, err := database.DescribeSQL(ctx, d.db, query)
	if err != nil {
		return nil, mapError(err, "describe query failed")
	}
	return cols, nil
}

func (d *Driver) PrimaryKeys(ctx context.Context, table string) ([]string, error) {
	const q = `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema    = DATABASE()
		  AND table_name      = ?
		  AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position`

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	keys, err := database.ScanStrings(ctx, d.db, q, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch primary keys")
	}
	return keys, nil
}

func (d *Driver) ColumnRemarks(ctx context.Context, table string) ([]database.ColumnRemark, error) {
	const q = `
		SELECT column_name,
		       column_comment
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name   = ?
		ORDER BY ordinal_position`

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	remarks, err := database.ScanRemarks(ctx, d.db, q, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch column remarks")
	}
	return remarks, nil
}

// ListTables returns the base tables of the connected schema.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	tables, err := database.ScanStrings(ctx, d.db, q)
	if err != nil {
		return nil, mapError(err, "failed to list tables")
	}
	return tables, nil
}

func (d *Driver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.queryTimeout)
}

// --- error mapping ---

// mapError translates go-sql-driver/mysql errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(
			classifyMySQLCode(mysqlErr.Number),
			fmt.Sprintf("%s: %s", msg, mysqlErr.Message),
			err,
		)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// classifyMySQLCode maps MySQL error numbers to ErrKind.
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
func classifyMySQLCode(code uint16) errs.ErrKind {
	switch code {
	case 1044, 1045, 1142, 1143:
		return errs.ErrKindPermissionDenied
	case 1040, 1046, 1049, 1203:
		return errs.ErrKindConnectionFailed
	case 1146:
		return errs.ErrKindNotFound
	case 1054:
		return errs.ErrKindInvalidInput
	default:
		return errs.ErrKindQueryFailed
	}
}
