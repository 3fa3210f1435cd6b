package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
)

const closeTimeout = 5 * time.Second

// Driver is a PostgreSQL implementation of database.Conn backed by a single
// pgx connection. One Driver serves one introspection run.
type Driver struct {
	conn         *pgx.Conn
	queryTimeout time.Duration
}

// New connects to PostgreSQL using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}
	if cfg.ConnectTimeout > 0 {
		connCfg.ConnectTimeout = cfg.ConnectTimeout
	}

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return nil, mapError(err, "failed to connect")
	}

	d := &Driver{conn: conn, queryTimeout: cfg.QueryTimeout}

	if err := d.Ping(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}

	return d, nil
}

// --- database.Conn implementation ---

// Ping verifies the server is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.conn.Ping(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close terminates the connection.
func (d *Driver) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return d.conn.Close(ctx)
}

// Describe runs query and reads the row description. Type names come from
// the connection's type map, so user-defined types resolve too.
func (d *Driver) Describe(ctx context.Context, query string) ([]database.ColumnDescriptor, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	rows, err := d.conn.Query(ctx, query)
	if err != nil {
		return nil, mapError(err, "describe query failed")
	}

	fields := rows.FieldDescriptions()
	cols := make([]database.ColumnDescriptor, 0, len(fields))
	for _, fd := range fields {
		typeName := d.typeName(fd.DataTypeOID)
		cols = append(cols, database.ColumnDescriptor{
			Name:       fd.Name,
			TypeName:   typeName,
			ValueClass: database.ValueClassOf(typeName),
		})
	}

	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "describe query failed")
	}
	return cols, nil
}

// PrimaryKeys lists the columns of the table's primary-key index in key order.
func (d *Driver) PrimaryKeys(ctx context.Context, table string) ([]string, error) {
	const q = `
		SELECT a.attname
		FROM pg_index i
		JOIN pg_attribute a
		  ON a.attrelid = i.indrelid
		 AND a.attnum   = ANY(i.indkey)
		WHERE i.indrelid = $1::regclass
		  AND i.indisprimary
		ORDER BY array_position(i.indkey::int2[], a.attnum)`

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	rows, err := d.conn.Query(ctx, q, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch primary keys")
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, "failed to fetch primary keys")
	}
	return keys, nil
}

// ColumnRemarks reads COMMENT ON COLUMN text for every live column.
func (d *Driver) ColumnRemarks(ctx context.Context, table string) ([]database.ColumnRemark, error) {
	const q = `
		SELECT a.attname,
		       col_description(a.attrelid, a.attnum)
		FROM pg_attribute a
		WHERE a.attrelid = $1::regclass
		  AND a.attnum   > 0
		  AND NOT a.attisdropped
		ORDER BY a.attnum`

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	rows, err := d.conn.Query(ctx, q, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch column remarks")
	}
	remarks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (database.ColumnRemark, error) {
		var (
			name    string
			comment *string
		)
		if err := row.Scan(&name, &comment); err != nil {
			return database.ColumnRemark{}, err
		}
		if comment != nil {
			comment = database.NonEmpty(*comment)
		}
		return database.ColumnRemark{Column: name, Remarks: comment}, nil
	})
	if err != nil {
		return nil, mapError(err, "failed to fetch column remarks")
	}
	return remarks, nil
}

// ListTables returns the base tables of the current schema.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	rows, err := d.conn.Query(ctx, q)
	if err != nil {
		return nil, mapError(err, "failed to list tables")
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, "failed to list tables")
	}
	return tables, nil
}

func (d *Driver) typeName(oid uint32) string {
	if t, ok := d.conn.TypeMap().TypeForOID(oid); ok {
		return t.Name
	}
	return "oid:" + strconv.FormatUint(uint64(oid), 10)
}

func (d *Driver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.queryTimeout)
}

// --- error mapping ---

// mapError translates pgx/pgconn errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	// Context cancellation / deadline exceeded
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	// No rows
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	// Postgres server-side error (SQLSTATE codes)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(
			classifySQLState(pgErr.Code),
			fmt.Sprintf("%s: %s", msg, pgErr.Message),
			err,
		)
	}

	// Fallthrough: connection-level errors (TLS, network, auth)
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// classifySQLState maps SQLSTATE codes to ErrKind.
func classifySQLState(code string) errs.ErrKind {
	switch {
	case code == "42P01": // undefined_table
		return errs.ErrKindNotFound
	case code == "42703": // undefined_column
		return errs.ErrKindInvalidInput
	case code == "42501", strings.HasPrefix(code, "28"):
		return errs.ErrKindPermissionDenied
	case strings.HasPrefix(code, "08"):
		return errs.ErrKindConnectionFailed
	default:
		return errs.ErrKindQueryFailed
	}
}
