package alignment_report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategories_SortedAndDistinct(t *testing.T) {
	t.Parallel()

	cats := NewCategories([]string{"barcode02", "barcode01", "barcode02", "barcode10"})

	assert.Equal(t, 3, cats.Len())
	assert.Equal(t, []string{"barcode01", "barcode02", "barcode10"}, cats.Names())

	code, ok := cats.Code("barcode02")
	require.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Equal(t, "barcode02", cats.Name(code))

	_, ok = cats.Code("barcode99")
	assert.False(t, ok)
}

func TestNewCategories_OrderIndependent(t *testing.T) {
	t.Parallel()

	a := NewCategories([]string{"C", "A", "B", "A"})
	b := NewCategories([]string{"B", "B", "C", "A"})

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Names(), b.Names())
}

func TestCategories_NamesIsACopy(t *testing.T) {
	t.Parallel()

	cats := NewCategories([]string{"A", "B"})
	names := cats.Names()
	names[0] = "Z"

	assert.Equal(t, []string{"A", "B"}, cats.Names())
}

func TestCategories_Difference(t *testing.T) {
	t.Parallel()

	a := NewCategories([]string{"A", "B", "C"})
	b := NewCategories([]string{"B", "D"})

	assert.Equal(t, []string{"A", "C"}, a.Difference(b))
	assert.Equal(t, []string{"D"}, b.Difference(a))
	assert.Empty(t, a.Difference(a))
	assert.False(t, a.Equal(b))
}
