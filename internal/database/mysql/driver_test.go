package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
)

func newMock(t *testing.T) (*Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return Open(db), mock
}

func TestDriver_Describe(t *testing.T) {
	drv, mock := newMock(t)
	query := "SELECT * FROM SCTYPE WHERE 1 = 2"

	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("ID").OfType("INT", int64(0)),
		sqlmock.NewColumn("NAME").OfType("VARCHAR", ""),
		sqlmock.NewColumn("PRICE").OfType("DECIMAL", ""),
		sqlmock.NewColumn("HITS").OfType("UNSIGNED BIGINT", uint64(0)),
	)
	mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(rows)

	cols, err := drv.Describe(context.Background(), query)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []database.ColumnDescriptor{
		{Name: "ID", TypeName: "INT", ValueClass: database.ClassInteger},
		{Name: "NAME", TypeName: "VARCHAR", ValueClass: database.ClassString},
		{Name: "PRICE", TypeName: "DECIMAL", ValueClass: database.ClassBigDecimal},
		{Name: "HITS", TypeName: "UNSIGNED BIGINT", ValueClass: database.ClassBigInteger},
	}, cols)
}

func TestDriver_Describe_UnknownTable(t *testing.T) {
	drv, mock := newMock(t)
	query := "SELECT * FROM NOPE WHERE 1 = 2"

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'app.NOPE' doesn't exist"})

	_, err := drv.Describe(context.Background(), query)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Contains(t, err.Error(), "doesn't exist")
}

func TestDriver_PrimaryKeys(t *testing.T) {
	drv, mock := newMock(t)

	mock.ExpectQuery("FROM information_schema.key_column_usage").
		WithArgs("SCTYPE").
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("column_name").OfType("VARCHAR", ""),
		).AddRow("ID"))

	keys, err := drv.PrimaryKeys(context.Background(), "SCTYPE")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"ID"}, keys)
}

func TestDriver_ColumnRemarks(t *testing.T) {
	drv, mock := newMock(t)

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("SCTYPE").
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("column_name").OfType("VARCHAR", ""),
			sqlmock.NewColumn("column_comment").OfType("VARCHAR", ""),
		).AddRow("ID", "").AddRow("NAME", "Type name"))

	remarks, err := drv.ColumnRemarks(context.Background(), "SCTYPE")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, remarks, 2)
	assert.Equal(t, "ID", remarks[0].Column)
	assert.Nil(t, remarks[0].Remarks, "empty comment means no remark")
	require.NotNil(t, remarks[1].Remarks)
	assert.Equal(t, "Type name", *remarks[1].Remarks)
}

func TestDriver_ListTables(t *testing.T) {
	drv, mock := newMock(t)

	mock.ExpectQuery("FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("table_name").OfType("VARCHAR", ""),
		).AddRow("MENU").AddRow("SCTYPE"))

	tables, err := drv.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"MENU", "SCTYPE"}, tables)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"access denied", &mysql.MySQLError{Number: 1045, Message: "Access denied"}, errs.ErrKindPermissionDenied},
		{"unknown database", &mysql.MySQLError{Number: 1049, Message: "Unknown database"}, errs.ErrKindConnectionFailed},
		{"unknown column", &mysql.MySQLError{Number: 1054, Message: "Unknown column"}, errs.ErrKindInvalidInput},
		{"syntax", &mysql.MySQLError{Number: 1064, Message: "syntax error"}, errs.ErrKindQueryFailed},
		{"network", errors.New("dial tcp: connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, mapError(tt.err, "op").Kind)
		})
	}
	assert.Nil(t, mapError(nil, "op"))
}
