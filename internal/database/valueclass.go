package database

import "strings"

// Value classes reported for the common backend types.
const (
	ClassBoolean    = "java.lang.Boolean"
	ClassInteger    = "java.lang.Integer"
	ClassLong       = "java.lang.Long"
	ClassBigInteger = "java.math.BigInteger"
	ClassFloat      = "java.lang.Float"
	ClassDouble     = "java.lang.Double"
	ClassBigDecimal = "java.math.BigDecimal"
	ClassDate       = "java.sql.Date"
	ClassTime       = "java.sql.Time"
	ClassTimestamp  = "java.sql.Timestamp"
	ClassString     = "java.lang.String"
	ClassBytes      = "byte[]"
	ClassObject     = "java.lang.Object"
)

var valueClasses = map[string]string{
	"BIT":     ClassBoolean,
	"BOOL":    ClassBoolean,
	"BOOLEAN": ClassBoolean,

	"TINYINT":     ClassInteger,
	"SMALLINT":    ClassInteger,
	"MEDIUMINT":   ClassInteger,
	"INT":         ClassInteger,
	"INTEGER":     ClassInteger,
	"INT2":        ClassInteger,
	"INT4":        ClassInteger,
	"SERIAL":      ClassInteger,
	"SMALLSERIAL": ClassInteger,

	"BIGINT":    ClassLong,
	"INT8":      ClassLong,
	"BIGSERIAL": ClassLong,

	"FLOAT":  ClassFloat,
	"FLOAT4": ClassFloat,
	"REAL":   ClassFloat,

	"DOUBLE":           ClassDouble,
	"FLOAT8":           ClassDouble,
	"DOUBLE PRECISION": ClassDouble,

	"DECIMAL": ClassBigDecimal,
	"NUMERIC": ClassBigDecimal,
	"NUMBER":  ClassBigDecimal,
	"MONEY":   ClassBigDecimal,

	"DATE": ClassDate,
	"YEAR": ClassDate,

	"TIME":   ClassTime,
	"TIMETZ": ClassTime,

	"DATETIME":    ClassTimestamp,
	"TIMESTAMP":   ClassTimestamp,
	"TIMESTAMPTZ": ClassTimestamp,

	"CHAR":       ClassString,
	"VARCHAR":    ClassString,
	"VARCHAR2":   ClassString,
	"NVARCHAR2":  ClassString,
	"NCHAR":      ClassString,
	"NVARCHAR":   ClassString,
	"BPCHAR":     ClassString,
	"TEXT":       ClassString,
	"TINYTEXT":   ClassString,
	"MEDIUMTEXT": ClassString,
	"LONGTEXT":   ClassString,
	"CLOB":       ClassString,
	"ENUM":       ClassString,
	"SET":        ClassString,
	"JSON":       ClassString,
	"JSONB":      ClassString,
	"UUID":       ClassString,
	"XML":        ClassString,

	"BLOB":       ClassBytes,
	"TINYBLOB":   ClassBytes,
	"MEDIUMBLOB": ClassBytes,
	"LONGBLOB":   ClassBytes,
	"BINARY":     ClassBytes,
	"VARBINARY":  ClassBytes,
	"BYTEA":      ClassBytes,
}

// ValueClassOf returns the value class a JDBC driver would report for a
// column of the given backend type name. Parameters such as "(10,2)" and the
// UNSIGNED, SIGNED and ZEROFILL modifiers are ignored, except that unsigned
// INT widens to Long and unsigned BIGINT to BigInteger. Unknown types map to
// java.lang.Object.
func ValueClassOf(typeName string) string {
	name, unsigned := normalizeTypeName(typeName)
	class, ok := valueClasses[name]
	if !ok {
		return ClassObject
	}
	if unsigned {
		switch class {
		case ClassInteger:
			if name == "INT" || name == "INTEGER" {
				return ClassLong
			}
		case ClassLong:
			return ClassBigInteger
		}
	}
	return class
}

func normalizeTypeName(typeName string) (string, bool) {
	name := strings.ToUpper(strings.TrimSpace(typeName))
	if i := strings.IndexByte(name, '('); i >= 0 {
		if j := strings.IndexByte(name[i:], ')'); j >= 0 {
			name = name[:i] + name[i+j+1:]
		} else {
			name = name[:i]
		}
	}

	unsigned := false
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		switch f {
		case "UNSIGNED":
			unsigned = true
		case "SIGNED", "ZEROFILL":
		default:
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " "), unsigned
}
