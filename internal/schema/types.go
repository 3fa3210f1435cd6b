package schema

import (
	"encoding/json"
	"strings"

	"github.com/koustreak/schemagen/internal/typemap"
)

// ColumnInfo describes a single column of the describe query's result.
type ColumnInfo struct {
	Name         string  `json:"name"`
	DisplayName  string  `json:"display_name,omitempty"` // caller's spelling when columns were listed explicitly
	SQLType      string  `json:"sql_type"`               // backend type name, informational
	ValueClass   string  `json:"value_class"`
	ScalarType   string  `json:"scalar_type"` // simple type name used in the entity
	Remarks      *string `json:"remarks,omitempty"`
	IsPrimaryKey bool    `json:"primary_key"`
}

// RemarksOr returns the remarks, or fallback when there are none.
func (c *ColumnInfo) RemarksOr(fallback string) string {
	if c.Remarks == nil {
		return fallback
	}
	return *c.Remarks
}

// Columns is an ordered mapping of column name to *ColumnInfo. Iteration
// follows insertion order; putting an existing name replaces the value in
// place.
type Columns struct {
	order []*ColumnInfo
	index map[string]int
}

// NewColumns returns an empty mapping sized for n columns.
func NewColumns(n int) *Columns {
	return &Columns{
		order: make([]*ColumnInfo, 0, n),
		index: make(map[string]int, n),
	}
}

// Put inserts col under col.Name, keeping the original position when the
// name is already present.
func (c *Columns) Put(col *ColumnInfo) {
	if i, ok := c.index[col.Name]; ok {
		c.order[i] = col
		return
	}
	c.index[col.Name] = len(c.order)
	c.order = append(c.order, col)
}

// Get returns the column named name.
func (c *Columns) Get(name string) (*ColumnInfo, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.order[i], true
}

// Lookup is Get with a case-insensitive fallback. Catalog queries return
// stored names while a re-cased select list describes its own spelling.
func (c *Columns) Lookup(name string) (*ColumnInfo, bool) {
	if col, ok := c.Get(name); ok {
		return col, true
	}
	for _, col := range c.order {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return nil, false
}

// Len returns the number of columns.
func (c *Columns) Len() int {
	return len(c.order)
}

// Names returns the column names in order.
func (c *Columns) Names() []string {
	names := make([]string, len(c.order))
	for i, col := range c.order {
		names[i] = col.Name
	}
	return names
}

// List returns the columns in order. The slice is a copy; the elements are not.
func (c *Columns) List() []*ColumnInfo {
	out := make([]*ColumnInfo, len(c.order))
	copy(out, c.order)
	return out
}

// TableInfo is the introspected model of one table, built fresh per run.
type TableInfo struct {
	TableName     string             `json:"table"`
	ColumnCount   int                `json:"column_count"`
	HasPrimaryKey bool               `json:"has_primary_key"`
	Explicit      bool               `json:"explicit_columns"` // columns were listed by the caller
	Columns       *Columns           `json:"-"`
	Imports       typemap.ImportFlag `json:"-"`
}

// MarshalJSON renders the columns as an ordered array.
func (t *TableInfo) MarshalJSON() ([]byte, error) {
	type plain TableInfo
	return json.Marshal(struct {
		*plain
		Columns []*ColumnInfo `json:"columns"`
		Imports []string      `json:"imports"`
	}{
		plain:   (*plain)(t),
		Columns: t.Columns.List(),
		Imports: t.Imports.Paths(),
	})
}

// PrimaryKeys returns the names of the key columns in column order.
func (t *TableInfo) PrimaryKeys() []string {
	var keys []string
	for _, c := range t.Columns.order {
		if c.IsPrimaryKey {
			keys = append(keys, c.Name)
		}
	}
	return keys
}
