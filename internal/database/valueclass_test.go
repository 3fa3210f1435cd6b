package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueClassOf(t *testing.T) {
	tests := []struct {
		typeName string
		expected string
	}{
		{"INT", ClassInteger},
		{"int4", ClassInteger},
		{"INT UNSIGNED", ClassLong},
		{"TINYINT(1)", ClassInteger},
		{"BIGINT", ClassLong},
		{"bigint unsigned", ClassBigInteger},
		{"BIGINT(20) UNSIGNED ZEROFILL", ClassBigInteger},
		{"DECIMAL(10,2)", ClassBigDecimal},
		{"numeric", ClassBigDecimal},
		{"VARCHAR(64)", ClassString},
		{"bpchar", ClassString},
		{"TEXT", ClassString},
		{"DATE", ClassDate},
		{"DATETIME", ClassTimestamp},
		{"timestamptz", ClassTimestamp},
		{"TIME", ClassTime},
		{"DOUBLE PRECISION", ClassDouble},
		{"float8", ClassDouble},
		{"REAL", ClassFloat},
		{"BOOLEAN", ClassBoolean},
		{"BLOB", ClassBytes},
		{"bytea", ClassBytes},
		{"GEOMETRY", ClassObject},
		{"", ClassObject},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValueClassOf(tt.typeName))
		})
	}
}

func TestCatalogCase_Apply(t *testing.T) {
	assert.Equal(t, "SCTYPE", CatalogUpper.Apply("sctype"))
	assert.Equal(t, "sctype", CatalogLower.Apply("SCType"))
	assert.Equal(t, "ScType", CatalogPreserve.Apply("ScType"))
	assert.Equal(t, "ScType", CatalogCase("").Apply("ScType"))
	assert.Equal(t, "SCTYPE", CatalogCase("UPPER").Apply("scType"))
}
