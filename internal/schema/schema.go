// Package schema builds the table model schemagen generates from: one
// zero-row describe query plus the primary-key and remarks catalogs, all on
// a single connection.
package schema

import (
	"context"
	"strings"

	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
)

// Options tunes an introspection run.
type Options struct {
	// Lenient restores positional mapping without a length check: only an
	// explicit list shorter than the result descriptor fails, extra entries
	// are ignored.
	Lenient bool

	// CatalogCase is applied to the table name for the primary-key and
	// remarks lookups only.
	CatalogCase database.CatalogCase
}

// ParseColumnList splits a comma-separated column list, trimming blanks and
// dropping empty entries. The caller's spelling is kept as is.
func ParseColumnList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load opens the database named db, introspects table and closes the
// connection before returning, on success and failure alike.
func Load(ctx context.Context, dialer database.Dialer, db, table string, explicit []string, opts Options) (_ *TableInfo, err error) {
	conn, err := dialer.Dial(ctx, db)
	if err != nil {
		if errs.IsConfiguration(err) {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrKindSchema, "open database "+db, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = errs.Wrap(errs.ErrKindSchema, "close database "+db, cerr)
		}
	}()

	return NewIntrospector(conn, opts).Introspect(ctx, table, explicit)
}

// ListTables opens the database named db and returns its table names.
// Backends whose connection cannot enumerate tables report InvalidInput.
func ListTables(ctx context.Context, dialer database.Dialer, db string) (_ []string, err error) {
	conn, err := dialer.Dial(ctx, db)
	if err != nil {
		if errs.IsConfiguration(err) {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrKindSchema, "open database "+db, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = errs.Wrap(errs.ErrKindSchema, "close database "+db, cerr)
		}
	}()

	lister, ok := conn.(database.TableLister)
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "database %s cannot list its tables", db)
	}
	tables, err := lister.ListTables(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchema, "list tables of "+db, err)
	}
	return tables, nil
}
