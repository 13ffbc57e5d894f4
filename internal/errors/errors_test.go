package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeCategories(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		name     string
		category Category
	}{
		{DuplicatePropertyErrorCode, "DuplicatePropertyError", ConfigurationCategory},
		{UnknownObjectErrorCode, "UnknownObjectError", ConfigurationCategory},
		{CyclicDependencyErrorCode, "CyclicDependencyError", ConfigurationCategory},
		{ArgumentMismatchErrorCode, "ArgumentMismatchError", ConfigurationCategory},
		{GenerationErrorCode, "GenerationError", GenerationCategory},
		{FileSystemErrorCode, "FileSystemError", GenerationCategory},
		{UnknownErrorCode, "UnknownError", UnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.code.String())
			assert.Equal(t, tt.category, CategoryOf(tt.code))
		})
	}
}

func TestCyclicDependencyError_NamesAllMembers(t *testing.T) {
	err := NewCyclicDependencyError([]string{"sales/Order.A", "sales/Order.B", "sales/Order.C"})

	assert.Equal(t, "cyclic property dependency: sales/Order.A -> sales/Order.B -> sales/Order.C -> sales/Order.A", err.Error())
	assert.Equal(t, CyclicDependencyErrorCode, err.ErrorCode())
	assert.Equal(t, ConfigurationCategory, err.Category())
	assert.NotEmpty(t, err.Suggestions())
}

func TestMissingDependencyError_Context(t *testing.T) {
	err := NewMissingDependencyError("Order", "VERSIONED", "UNIQUEIDENTIFIED")

	assert.Contains(t, err.Error(), "Order")
	assert.Contains(t, err.Error(), "VERSIONED")
	assert.Contains(t, err.Error(), "UNIQUEIDENTIFIED")
	assert.Equal(t, "UNIQUEIDENTIFIED", err.Context()["dependency"])
}

func TestArgumentCountError(t *testing.T) {
	err := NewArgumentCountError("sales/Product", "sales/Product.RIGHTFORLINKTOMASTER:ORDERLINE", "REMOVELINK", 1, 2)

	assert.Equal(t, "action 'REMOVELINK' on property 'sales/Product.RIGHTFORLINKTOMASTER:ORDERLINE' of data object 'sales/Product': "+
		"expected exactly 1 input argument, action has 2", err.Error())
	assert.Equal(t, "REMOVELINK", err.Action)
	assert.Equal(t, "sales/Product", err.Object)
	assert.Equal(t, "sales/Product.RIGHTFORLINKTOMASTER:ORDERLINE", err.Context()["property"])
	assert.Equal(t, 2, err.Context()["actual_count"])
}

func TestGenerationError_WrapsCause(t *testing.T) {
	err := NewGenerationError("Order", "CUSTOM", "type", ErrNotImplemented)

	assert.True(t, Is(err, ErrNotImplemented))
	assert.Equal(t, GenerationCategory, err.Category())
	assert.Contains(t, err.Error(), "property 'CUSTOM'")
	assert.Contains(t, err.Error(), "#NOTIMPLEMENTED#")
}

func TestCodeOfAndHasCode(t *testing.T) {
	inner := NewUnknownPropertyError("Order", "VERSIONED")
	wrapped := fmt.Errorf("resolving sales: %w", inner)

	assert.Equal(t, UnknownPropertyErrorCode, CodeOf(wrapped))
	assert.True(t, HasCode(wrapped, UnknownPropertyErrorCode))
	assert.False(t, HasCode(wrapped, CyclicDependencyErrorCode))
	assert.Equal(t, UnknownErrorCode, CodeOf(fmt.Errorf("plain")))

	var target *UnknownPropertyError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "VERSIONED", target.Property)
}

func TestMultipleErrors(t *testing.T) {
	multi := NewMultipleErrors()
	assert.Nil(t, multi.ErrOrNil())

	multi.Add(NewDuplicatePropertyError("Order", "VERSIONED"))
	multi.Add(NewMissingDependencyError("Invoice", "VERSIONED", "UNIQUEIDENTIFIED"))

	err := multi.ErrOrNil()
	require.Error(t, err)
	assert.Equal(t, 2, multi.Count())
	assert.True(t, HasCode(err, MissingDependencyErrorCode))
	assert.Contains(t, err.Error(), "multiple errors (2 total)")

	var missing *MissingDependencyError
	assert.True(t, As(err, &missing))
	assert.Equal(t, "Invoice", missing.Object)
}
