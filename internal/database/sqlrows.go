package database

import (
	"context"
	"database/sql"
)

// Querier is the subset of *sql.DB, *sql.Conn and *sql.Tx the database/sql
// backed drivers use.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DescribeSQL runs query and converts its column types into descriptors.
// Errors are returned unmapped so each driver can classify them.
func DescribeSQL(ctx context.Context, q Querier, query string) ([]ColumnDescriptor, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	out := make([]ColumnDescriptor, 0, len(types))
	for _, ct := range types {
		typeName := ct.DatabaseTypeName()
		out = append(out, ColumnDescriptor{
			Name:       ct.Name(),
			TypeName:   typeName,
			ValueClass: ValueClassOf(typeName),
		})
	}
	return out, rows.Err()
}

// ScanStrings collects a single string column from every row of query.
func ScanStrings(ctx context.Context, q Querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ScanRemarks collects (column, remarks) pairs from query. Empty and NULL
// remarks both come back as nil.
func ScanRemarks(ctx context.Context, q Querier, query string, args ...any) ([]ColumnRemark, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ColumnRemark
	for rows.Next() {
		var (
			name    string
			remarks sql.NullString
		)
		if err := rows.Scan(&name, &remarks); err != nil {
			return nil, err
		}
		out = append(out, ColumnRemark{Column: name, Remarks: NonEmpty(remarks.String)})
	}
	return out, rows.Err()
}

// NonEmpty returns a pointer to s, or nil when s is empty.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
