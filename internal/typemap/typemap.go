// Package typemap maps value-class names reported by a driver onto the scalar
// type names used in generated entities, and tracks which of them need an
// explicit import.
package typemap

import "strings"

// ImportFlag is a set of extra imports an entity needs.
type ImportFlag uint8

const NoImport ImportFlag = 0

const (
	NeedsDecimal   ImportFlag = 1 << iota // java.math.BigDecimal
	NeedsTimestamp                        // java.sql.Timestamp
	NeedsDate                             // java.util.Date
)

// importOrder fixes the order in which Lines renders the flags.
var importOrder = []struct {
	flag ImportFlag
	path string
}{
	{NeedsDecimal, "java.math.BigDecimal"},
	{NeedsTimestamp, "java.sql.Timestamp"},
	{NeedsDate, "java.util.Date"},
}

// MapType returns the simple name of valueClass (the part after the last
// dot) and the import it requires, if any.
func MapType(valueClass string) (string, ImportFlag) {
	scalar := valueClass[strings.LastIndexByte(valueClass, '.')+1:]

	switch strings.ToUpper(scalar) {
	case "BIGDECIMAL":
		return scalar, NeedsDecimal
	case "DATE":
		return scalar, NeedsDate
	case "TIMESTAMP":
		return scalar, NeedsTimestamp
	default:
		return scalar, NoImport
	}
}

// Has reports whether every flag in other is set in f.
func (f ImportFlag) Has(other ImportFlag) bool {
	return other != NoImport && f&other == other
}

// Paths returns the fully qualified names to import, in fixed order.
func (f ImportFlag) Paths() []string {
	var out []string
	for _, imp := range importOrder {
		if f.Has(imp.flag) {
			out = append(out, imp.path)
		}
	}
	return out
}

// Lines renders one import statement per flag, in fixed order.
func (f ImportFlag) Lines() []string {
	paths := f.Paths()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, "import "+p+";")
	}
	return out
}

func (f ImportFlag) String() string {
	if f == NoImport {
		return "none"
	}
	return strings.Join(f.Paths(), ",")
}
