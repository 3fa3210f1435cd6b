package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "kind and message",
			err:      New(ErrKindSchema, "describe failed"),
			expected: "[schema] describe failed",
		},
		{
			name:     "with cause",
			err:      Wrap(ErrKindIO, "write entity", errors.New("disk full")),
			expected: "[io] write entity: disk full",
		},
		{
			name:     "with details",
			err:      WithDetails(ErrKindConfiguration, "missing settings", []string{"TableName", "EntityPath"}),
			expected: "[configuration] missing settings [TableName, EntityPath]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestPredicates_TraverseChain(t *testing.T) {
	inner := Wrap(ErrKindQueryFailed, "query failed", errors.New("table missing"))
	outer := Wrap(ErrKindSchema, "SELECT * FROM X WHERE 1 = 2", inner)
	wrapped := fmt.Errorf("run: %w", outer)

	assert.True(t, IsSchema(wrapped))
	assert.False(t, IsQueryFailed(wrapped), "outermost kind wins")
	assert.True(t, IsQueryFailed(inner))
	assert.Equal(t, ErrKindSchema, KindOf(wrapped))
	assert.Equal(t, ErrKindUnknown, KindOf(errors.New("plain")))
}

func TestDetailsOf(t *testing.T) {
	err := fmt.Errorf("validate: %w",
		WithDetails(ErrKindConfiguration, "missing settings", []string{"DomainObjectName"}))

	assert.True(t, IsConfiguration(err))
	assert.Equal(t, []string{"DomainObjectName"}, DetailsOf(err))
	assert.Nil(t, DetailsOf(errors.New("plain")))
}

func TestHasKind(t *testing.T) {
	inner := Wrap(ErrKindNotFound, "table missing", errors.New("1146"))
	outer := fmt.Errorf("run: %w", Wrap(ErrKindSchema, "describe", fmt.Errorf("driver: %w", inner)))

	assert.True(t, HasKind(outer, ErrKindSchema))
	assert.True(t, HasKind(outer, ErrKindNotFound))
	assert.False(t, HasKind(outer, ErrKindIO))
	assert.False(t, HasKind(errors.New("plain"), ErrKindUnknown))
	assert.False(t, HasKind(nil, ErrKindNotFound))
}
