// Package database defines the backend-neutral contract schemagen needs from
// a database: describe a zero-row query and read the primary-key and remarks
// catalogs for one table.
//
// All layers above this package talk only to these interfaces; they never
// import the mysql, postgres or sqlite packages directly.
package database

import "context"

// ColumnDescriptor is one column of a result descriptor.
type ColumnDescriptor struct {
	// Name is the column identifier as reported by the driver.
	Name string
	// TypeName is the backend type name, e.g. VARCHAR, INT4, NUMERIC.
	TypeName string
	// ValueClass is the fully qualified class name a JDBC driver would report
	// for this column, e.g. java.math.BigDecimal.
	ValueClass string
}

// ColumnRemark is one row of the remarks catalog.
type ColumnRemark struct {
	Column  string
	Remarks *string
}

// Conn is one open connection, used for a single introspection run.
type Conn interface {
	// Describe executes query and returns its result descriptor without
	// reading any row data.
	Describe(ctx context.Context, query string) ([]ColumnDescriptor, error)

	// PrimaryKeys lists the primary-key column names of table in key order.
	PrimaryKeys(ctx context.Context, table string) ([]string, error)

	// ColumnRemarks lists every column of table with its comment, if any.
	ColumnRemarks(ctx context.Context, table string) ([]ColumnRemark, error)

	// Close releases the connection.
	Close() error
}

// TableLister is implemented by connections that can enumerate user tables.
type TableLister interface {
	ListTables(ctx context.Context) ([]string, error)
}

// Dialer opens a connection to a configured database by name.
type Dialer interface {
	Dial(ctx context.Context, name string) (Conn, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, name string) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context, name string) (Conn, error) {
	return f(ctx, name)
}
