package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/typemap"
)

// Introspector builds a TableInfo from one open connection.
type Introspector struct {
	conn database.Conn
	opts Options
}

// NewIntrospector creates an introspector over conn. It does not own conn.
func NewIntrospector(conn database.Conn, opts Options) *Introspector {
	return &Introspector{conn: conn, opts: opts}
}

// DescribeQuery returns the zero-row query used to read the result
// descriptor of table.
func DescribeQuery(table string, explicit []string) string {
	clause := "*"
	if len(explicit) > 0 {
		clause = strings.Join(explicit, ", ")
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE 1 = 2", clause, table)
}

// Introspect describes table and reads its key and remarks catalogs.
// When explicit is non-empty, entry i becomes the display name of result
// column i.
func (in *Introspector) Introspect(ctx context.Context, table string, explicit []string) (*TableInfo, error) {
	if strings.TrimSpace(table) == "" {
		return nil, errs.New(errs.ErrKindConfiguration, "table name is empty")
	}

	query := DescribeQuery(table, explicit)
	descs, err := in.conn.Describe(ctx, query)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchema, query, err)
	}

	if err := in.checkExplicit(len(descs), explicit); err != nil {
		return nil, err
	}

	info := &TableInfo{
		TableName: table,
		Explicit:  len(explicit) > 0,
		Columns:   NewColumns(len(descs)),
	}

	for i, d := range descs {
		scalar, flag := typemap.MapType(d.ValueClass)
		col := &ColumnInfo{
			Name:       d.Name,
			SQLType:    d.TypeName,
			ValueClass: d.ValueClass,
			ScalarType: scalar,
		}
		if info.Explicit {
			col.DisplayName = explicit[i]
		}
		info.Imports |= flag
		info.Columns.Put(col)
	}
	info.ColumnCount = info.Columns.Len()

	catalogTable := in.opts.CatalogCase.Apply(table)

	keys, err := in.conn.PrimaryKeys(ctx, catalogTable)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchema, "primary keys of "+catalogTable, err)
	}
	for _, k := range keys {
		col, ok := info.Columns.Lookup(k)
		if !ok {
			return nil, errs.Newf(errs.ErrKindConsistency,
				"primary key column %q of %s is not among the described columns %v", k, table, info.Columns.Names())
		}
		col.IsPrimaryKey = true
		info.HasPrimaryKey = true
	}

	remarks, err := in.conn.ColumnRemarks(ctx, catalogTable)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchema, "column remarks of "+catalogTable, err)
	}
	for _, r := range remarks {
		// Remarks for columns outside the selection are dropped.
		if col, ok := info.Columns.Lookup(r.Column); ok {
			col.Remarks = r.Remarks
			if col.Remarks != nil && *col.Remarks == "" {
				col.Remarks = nil
			}
		}
	}

	return info, nil
}

func (in *Introspector) checkExplicit(described int, explicit []string) error {
	if len(explicit) == 0 || len(explicit) == described {
		return nil
	}
	if in.opts.Lenient && len(explicit) > described {
		return nil
	}
	return errs.Newf(errs.ErrKindConfiguration,
		"explicit column list has %d entries but the query describes %d columns", len(explicit), described)
}
