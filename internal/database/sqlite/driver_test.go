package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
)

func newFixture(t *testing.T) *Driver {
	t.Helper()
	ctx := context.Background()

	dsn := filepath.Join(t.TempDir(), "app.db")
	drv, err := New(ctx, database.DefaultConfig(database.DriverSQLite, dsn))
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })

	_, err = drv.db.ExecContext(ctx, `
		CREATE TABLE SCTYPE (
			ID      INTEGER PRIMARY KEY,
			NAME    VARCHAR(40),
			PRICE   DECIMAL(10,2),
			CREATED TIMESTAMP
		)`)
	require.NoError(t, err)
	_, err = drv.db.ExecContext(ctx, `
		CREATE TABLE MENU_ITEM (
			MENU_ID  TEXT,
			ITEM_NO  INTEGER,
			LABEL    TEXT,
			PRIMARY KEY (ITEM_NO, MENU_ID)
		)`)
	require.NoError(t, err)
	return drv
}

func TestDriver_Describe(t *testing.T) {
	drv := newFixture(t)

	cols, err := drv.Describe(context.Background(), "SELECT * FROM SCTYPE WHERE 1 = 2")
	require.NoError(t, err)
	require.Len(t, cols, 4)

	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"ID", "NAME", "PRICE", "CREATED"}, names)
	assert.Equal(t, database.ClassInteger, cols[0].ValueClass)
	assert.Equal(t, database.ClassString, cols[1].ValueClass)
	assert.Equal(t, database.ClassBigDecimal, cols[2].ValueClass)
	assert.Equal(t, database.ClassTimestamp, cols[3].ValueClass)
}

func TestDriver_Describe_ExplicitColumns(t *testing.T) {
	drv := newFixture(t)

	cols, err := drv.Describe(context.Background(), "SELECT NAME, ID FROM SCTYPE WHERE 1 = 2")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "NAME", cols[0].Name)
	assert.Equal(t, "ID", cols[1].Name)
}

func TestDriver_Describe_UnknownTable(t *testing.T) {
	drv := newFixture(t)

	_, err := drv.Describe(context.Background(), "SELECT * FROM NOPE WHERE 1 = 2")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestDriver_Describe_UnknownColumn(t *testing.T) {
	drv := newFixture(t)

	_, err := drv.Describe(context.Background(), "SELECT NOPE FROM SCTYPE WHERE 1 = 2")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestDriver_PrimaryKeys(t *testing.T) {
	drv := newFixture(t)
	ctx := context.Background()

	keys, err := drv.PrimaryKeys(ctx, "SCTYPE")
	require.NoError(t, err)
	assert.Equal(t, []string{"ID"}, keys)

	keys, err = drv.PrimaryKeys(ctx, "MENU_ITEM")
	require.NoError(t, err)
	assert.Equal(t, []string{"ITEM_NO", "MENU_ID"}, keys, "key order, not column order")
}

func TestDriver_ColumnRemarks(t *testing.T) {
	drv := newFixture(t)

	remarks, err := drv.ColumnRemarks(context.Background(), "SCTYPE")
	require.NoError(t, err)
	require.Len(t, remarks, 4)
	for _, r := range remarks {
		assert.Nil(t, r.Remarks)
	}
	assert.Equal(t, "ID", remarks[0].Column)
}

func TestDriver_ListTables(t *testing.T) {
	drv := newFixture(t)

	tables, err := drv.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"MENU_ITEM", "SCTYPE"}, tables)
}
