package drivers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
)

func TestRegistry_UnknownName(t *testing.T) {
	reg := NewRegistry(map[string]*database.Config{
		"local": database.DefaultConfig(database.DriverSQLite, ":memory:"),
	})

	_, err := reg.Dial(context.Background(), "prod")
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Contains(t, err.Error(), "local")
}

func TestRegistry_UnsupportedDriver(t *testing.T) {
	reg := NewRegistry(map[string]*database.Config{
		"legacy": {Driver: "oracle", DSN: "x"},
	})

	_, err := reg.Dial(context.Background(), "legacy")
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
}

func TestRegistry_DialSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "app.db")
	reg := NewRegistry(map[string]*database.Config{
		"local": database.DefaultConfig(database.DriverSQLite, dsn),
	})

	conn, err := reg.Dial(context.Background(), "local")
	require.NoError(t, err)
	require.NoError(t, conn.Close())
}

func TestRegistry_NamesAndCatalogCase(t *testing.T) {
	upper := database.DefaultConfig(database.DriverMySQL, "dsn")
	upper.CatalogCase = database.CatalogUpper
	reg := NewRegistry(map[string]*database.Config{
		"b":   upper,
		"a":   database.DefaultConfig(database.DriverSQLite, ":memory:"),
		"nil": nil,
	})

	assert.Equal(t, []string{"a", "b"}, reg.Names())
	assert.Equal(t, database.CatalogUpper, reg.CatalogCase("b"))
	assert.Equal(t, database.CatalogPreserve, reg.CatalogCase("missing"))

	upper.CatalogCase = database.CatalogLower
	assert.Equal(t, database.CatalogUpper, reg.CatalogCase("b"), "registry holds its own copy")
}
