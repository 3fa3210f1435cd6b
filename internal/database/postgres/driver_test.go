package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errs.ErrKind
	}{
		{"canceled", context.Canceled, errs.ErrKindTimeout},
		{"undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "nope" does not exist`}, errs.ErrKindNotFound},
		{"undefined column", &pgconn.PgError{Code: "42703", Message: "column does not exist"}, errs.ErrKindInvalidInput},
		{"bad password", &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}, errs.ErrKindPermissionDenied},
		{"insufficient privilege", &pgconn.PgError{Code: "42501", Message: "permission denied"}, errs.ErrKindPermissionDenied},
		{"connection exception", &pgconn.PgError{Code: "08006", Message: "connection failure"}, errs.ErrKindConnectionFailed},
		{"syntax", &pgconn.PgError{Code: "42601", Message: "syntax error"}, errs.ErrKindQueryFailed},
		{"network", errors.New("dial tcp: connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "op")
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
		})
	}
}

func TestNew_InvalidDSN(t *testing.T) {
	_, err := New(context.Background(), database.DefaultConfig(database.DriverPostgres, "postgres://%zz"))
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
}

// TestDriver_Live runs against a real server when SCHEMAGEN_TEST_POSTGRES_DSN is set.
func TestDriver_Live(t *testing.T) {
	dsn := os.Getenv("SCHEMAGEN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SCHEMAGEN_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	drv, err := New(ctx, database.DefaultConfig(database.DriverPostgres, dsn))
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })

	_, err = drv.conn.Exec(ctx, `
		CREATE TEMP TABLE sctype (id int4 PRIMARY KEY, name varchar(40), price numeric(10,2));
		COMMENT ON COLUMN sctype.name IS 'Type name';`)
	require.NoError(t, err)

	cols, err := drv.Describe(ctx, "SELECT * FROM sctype WHERE 1 = 2")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "int4", cols[0].TypeName)
	assert.Equal(t, database.ClassInteger, cols[0].ValueClass)
	assert.Equal(t, database.ClassBigDecimal, cols[2].ValueClass)

	keys, err := drv.PrimaryKeys(ctx, "sctype")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, keys)

	remarks, err := drv.ColumnRemarks(ctx, "sctype")
	require.NoError(t, err)
	require.Len(t, remarks, 3)
	assert.Nil(t, remarks[0].Remarks)
	require.NotNil(t, remarks[1].Remarks)
	assert.Equal(t, "Type name", *remarks[1].Remarks)
}
