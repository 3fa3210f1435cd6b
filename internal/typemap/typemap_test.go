package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapType(t *testing.T) {
	tests := []struct {
		valueClass string
		scalar     string
		flag       ImportFlag
	}{
		{"java.math.BigDecimal", "BigDecimal", NeedsDecimal},
		{"java.sql.Timestamp", "Timestamp", NeedsTimestamp},
		{"java.sql.Date", "Date", NeedsDate},
		{"java.lang.String", "String", NoImport},
		{"java.lang.Integer", "Integer", NoImport},
		{"byte[]", "byte[]", NoImport},
		{"Long", "Long", NoImport},
		{"", "", NoImport},
	}

	for _, tt := range tests {
		t.Run(tt.valueClass, func(t *testing.T) {
			scalar, flag := MapType(tt.valueClass)
			assert.Equal(t, tt.scalar, scalar)
			assert.Equal(t, tt.flag, flag)
		})
	}
}

func TestImportFlag_LinesFixedOrder(t *testing.T) {
	var f ImportFlag
	f |= NeedsDate
	f |= NeedsDecimal
	f |= NeedsTimestamp
	f |= NeedsDate

	assert.Equal(t, []string{
		"import java.math.BigDecimal;",
		"import java.sql.Timestamp;",
		"import java.util.Date;",
	}, f.Lines())
	assert.Empty(t, NoImport.Lines())
	assert.Equal(t, "none", NoImport.String())
}

func TestImportFlag_Has(t *testing.T) {
	f := NeedsDecimal | NeedsDate
	assert.True(t, f.Has(NeedsDecimal))
	assert.False(t, f.Has(NeedsTimestamp))
	assert.False(t, f.Has(NoImport))
}
