package localcart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLines_PreservesOrderAndFields(t *testing.T) {
	original := int64(2999)
	items := []Item{
		{ID: 1, ItemID: "sku-1", Name: "Classic Tee", ImageURL: "https://cdn.example/1.jpg", UnitPrice: 1999, OriginalUnitPrice: &original, Quantity: 2},
		{ID: 2, ItemID: "sku-2", Name: "Socks", UnitPrice: 500, Quantity: 1},
	}

	lines := toLines(items)
	require.Len(t, lines, 2)

	assert.Equal(t, "sku-1", lines[0].ID)
	assert.Equal(t, "sku-1", lines[0].MerchandiseID)
	assert.Equal(t, "Classic Tee", lines[0].Title)
	assert.Equal(t, int64(1999), lines[0].UnitPrice)
	require.NotNil(t, lines[0].OriginalUnitPrice)
	assert.Equal(t, int64(2999), *lines[0].OriginalUnitPrice)
	assert.Equal(t, 2, lines[0].Quantity)

	assert.Equal(t, "sku-2", lines[1].ID)
	assert.Nil(t, lines[1].OriginalUnitPrice)
}

func TestToLines_Empty(t *testing.T) {
	assert.Empty(t, toLines(nil))
}
