// Package sqlite implements database.Conn for SQLite files using the pure-Go
// modernc.org/sqlite driver.
//
// SQLite keeps no column comments, so ColumnRemarks lists every column with
// no remark.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DriverName is the database/sql name modernc.org/sqlite registers.
const DriverName = "sqlite"

// Driver is a SQLite implementation of database.Conn backed by database/sql.
type Driver struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// New opens the SQLite database named by cfg.DSN (a file path or URI).
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	db, err := sql.Open(DriverName, cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}
	db.SetMaxOpenConns(1)

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

// Open wraps an existing *sql.DB.
func Open(db *sql.DB) *Driver {
	return &Driver{db: db}
}

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
	const q = `SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	keys, err := database.ScanStrings(ctx, d.db, q, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch primary keys")
	}
	return keys, nil
}

func (d *Driver) ColumnRemarks(ctx context.Context, table string) ([]database.ColumnRemark, error) {
	const q = `SELECT name FROM pragma_table_info(?) ORDER BY cid`

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	names, err := database.ScanStrings(ctx, d.db, q, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch column remarks")
	}
	remarks := make([]database.ColumnRemark, 0, len(names))
	for _, n := range names {
		remarks = append(remarks, database.ColumnRemark{Column: n})
	}
	return remarks, nil
}

// ListTables returns the user tables of the main database.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

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

// mapError translates modernc.org/sqlite errors into *errs.Error.
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

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return errs.Wrap(classifyResultCode(liteErr.Code(), liteErr.Error()), fmt.Sprintf("%s: %s", msg, liteErr.Error()), err)
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

// classifyResultCode maps a primary SQLite result code to ErrKind. SQLite
// reports unknown tables and columns as a generic SQLITE_ERROR, so the
// message decides those.
func classifyResultCode(code int, text string) errs.ErrKind {
	switch code & 0xff {
	case sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_READONLY:
		return errs.ErrKindPermissionDenied
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
		return errs.ErrKindConnectionFailed
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_INTERRUPT:
		return errs.ErrKindTimeout
	}
	switch {
	case strings.Contains(text, "no such table"):
		return errs.ErrKindNotFound
	case strings.Contains(text, "no such column"):
		return errs.ErrKindInvalidInput
	default:
		return errs.ErrKindQueryFailed
	}
}
