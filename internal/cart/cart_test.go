package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectbar/barweb/internal/models"
)

func mojito() models.Product {
	return models.Product{ID: 1, Name: "Mojito", Price: 8.5, Category: models.CategoryCocktails}
}

func cerveza() models.Product {
	return models.Product{ID: 2, Name: "Club Colombia", Price: 4.0, Category: models.CategoryBeer}
}

func TestCart_AddMergesByProduct(t *testing.T) {
	c := New()
	c.AddItem(mojito(), 8.5, 2)
	c.AddItem(mojito(), 8.5, 1)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 3, c.ItemCount())
}

func TestCart_AddIgnoresNonPositiveQuantity(t *testing.T) {
	c := New()
	c.AddItem(mojito(), 8.5, 0)
	c.AddItem(mojito(), 8.5, -3)

	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Total())
}

func TestCart_RemoveAbsentIsNoOp(t *testing.T) {
	c := New()
	c.AddItem(mojito(), 8.5, 1)
	c.RemoveItem(99)

	require.Len(t, c.Items, 1)
	assert.InDelta(t, 8.5, c.Total(), 1e-9)
}

func TestCart_UpdateQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	c.AddItem(mojito(), 8.5, 2)
	c.AddItem(cerveza(), 4.0, 1)

	c.UpdateQuantity(mojito().ID, 0)
	require.Len(t, c.Items, 1)
	assert.Equal(t, cerveza().ID, c.Items[0].Product.ID)

	c.UpdateQuantity(cerveza().ID, -1)
	assert.True(t, c.IsEmpty())
}

// Mirrors a typical table session: add two mojitos, one more, back down to
// one, then remove the line entirely. The total must track the lines at
// every step.
func TestCart_MutationSequenceKeepsTotalConsistent(t *testing.T) {
	c := New()

	c.AddItem(mojito(), 8.5, 2)
	assert.InDelta(t, 17.0, c.Total(), 1e-9)

	c.AddItem(mojito(), 8.5, 1)
	assert.InDelta(t, 25.5, c.Total(), 1e-9)

	c.UpdateQuantity(mojito().ID, 1)
	assert.InDelta(t, 8.5, c.Total(), 1e-9)

	c.RemoveItem(mojito().ID)
	assert.Zero(t, c.Total())
	assert.True(t, c.IsEmpty())
}

func TestCart_AddThenRemoveRestoresPriorState(t *testing.T) {
	c := New()
	c.AddItem(cerveza(), 4.0, 3)
	before := append([]Item(nil), c.Items...)
	beforeTotal := c.Total()

	c.AddItem(mojito(), 8.5, 2)
	c.RemoveItem(mojito().ID)

	assert.Equal(t, before, c.Items)
	assert.InDelta(t, beforeTotal, c.Total(), 1e-9)
}

func TestCart_TotalSumsAcrossLines(t *testing.T) {
	c := New()
	c.AddItem(mojito(), 8.5, 2)
	c.AddItem(cerveza(), 4.0, 3)

	assert.InDelta(t, 29.0, c.Total(), 1e-9)
	assert.Equal(t, 5, c.ItemCount())
}

func TestCart_ClearDropsLinesAndMetadata(t *testing.T) {
	c := New()
	c.SetTableNumber(4)
	c.SetClientName("María José")
	c.AddItem(mojito(), 8.5, 2)

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.TableNumber)
	assert.Empty(t, c.ClientName)
}

func TestCart_SetMetadataLeavesLinesAlone(t *testing.T) {
	c := New()
	c.AddItem(cerveza(), 4.0, 1)
	c.SetTableNumber(7)
	c.SetClientName("Pedro")

	require.Len(t, c.Items, 1)
	assert.Equal(t, 7, c.TableNumber)
	assert.Equal(t, "Pedro", c.ClientName)
}
