package database

import (
	"strings"
	"time"
)

// Driver identifies the database engine.
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// CatalogCase controls how the table name is cased for catalog lookups.
// Some backends store unquoted identifiers upper-cased in their catalogs.
type CatalogCase string

const (
	CatalogPreserve CatalogCase = "preserve"
	CatalogUpper    CatalogCase = "upper"
	CatalogLower    CatalogCase = "lower"
)

// Apply returns table cased according to c.
func (c CatalogCase) Apply(table string) string {
	switch CatalogCase(strings.ToLower(string(c))) {
	case CatalogUpper:
		return strings.ToUpper(table)
	case CatalogLower:
		return strings.ToLower(table)
	default:
		return table
	}
}

// Config holds everything needed to open one named database.
type Config struct {
	// Driver is the database engine (e.g. DriverMySQL).
	Driver Driver `mapstructure:"driver" yaml:"driver"`

	// DSN is the full data source name / connection string.
	// Example: "user:pass@tcp(localhost:3306)/app"
	DSN string `mapstructure:"dsn" yaml:"dsn"`

	// CatalogCase is applied to the table name for the primary-key and
	// remarks lookups only.
	CatalogCase CatalogCase `mapstructure:"catalog_case" yaml:"catalog_case"`

	// Timeouts
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"` // time limit for establishing the connection
	QueryTimeout   time.Duration `mapstructure:"query_timeout" yaml:"query_timeout"`     // per-query deadline
}

// DefaultConfig returns settings for a single short-lived introspection
// connection to dsn.
func DefaultConfig(driver Driver, dsn string) *Config {
	return &Config{
		Driver:         driver,
		DSN:            dsn,
		CatalogCase:    CatalogPreserve,
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   30 * time.Second,
	}
}
