package cart

import (
	"testing"

	"emporia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 1, ClampQuantity(0))
	assert.Equal(t, 1, ClampQuantity(-5))
	assert.Equal(t, 1, ClampQuantity(1))
	assert.Equal(t, 42, ClampQuantity(42))
	assert.Equal(t, maxQuantity, ClampQuantity(maxQuantity+1))
	assert.Equal(t, maxQuantity, ClampQuantity(100000))
}

func TestSameSelection(t *testing.T) {
	assert.True(t, SameSelection(nil, nil))
	assert.True(t, SameSelection(nil, map[string]string{}))
	assert.True(t, SameSelection(
		map[string]string{"Color": "Red", "Size": "M"},
		map[string]string{"Size": "M", "Color": "Red"},
	))
	assert.False(t, SameSelection(
		map[string]string{"Color": "Red"},
		map[string]string{"Color": "Blue"},
	))
	assert.False(t, SameSelection(
		map[string]string{"Color": "Red"},
		map[string]string{"Color": "Red", "Size": "M"},
	))
}

func TestFindLineMatchesCompoundIdentity(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "p1", Quantity: 1, Attributes: map[string]string{"Color": "Red"}},
		{ProductID: "p1", Quantity: 2, Attributes: map[string]string{"Color": "Blue"}},
		{ProductID: "p2", Quantity: 3},
	}

	assert.Equal(t, 0, findLine(items, "p1", map[string]string{"Color": "Red"}))
	assert.Equal(t, 1, findLine(items, "p1", map[string]string{"Color": "Blue"}))
	assert.Equal(t, 2, findLine(items, "p2", nil))
	assert.Equal(t, -1, findLine(items, "p1", nil))
	assert.Equal(t, -1, findLine(items, "p3", nil))
}

func TestMergeGuestItemsSumsMatchingLines(t *testing.T) {
	user := []models.CartItem{
		{ProductID: "p1", Quantity: 2, Attributes: map[string]string{"Color": "Red"}},
	}
	guest := []models.GuestCartItem{
		{ProductID: "p1", Quantity: 3, Attributes: map[string]string{"Color": "Red"}},
		{ProductID: "p2", Quantity: 1},
	}
	exists := map[string]bool{"p1": true, "p2": true}

	merged := MergeGuestItems(user, guest, exists)
	require.Len(t, merged, 2)
	assert.Equal(t, 5, merged[0].Quantity)
	assert.Equal(t, "p2", merged[1].ProductID)
	assert.Equal(t, 1, merged[1].Quantity)
}

func TestMergeGuestItemsDistinctSelectionsStaySeparate(t *testing.T) {
	user := []models.CartItem{
		{ProductID: "p1", Quantity: 1, Attributes: map[string]string{"Size": "M"}},
	}
	guest := []models.GuestCartItem{
		{ProductID: "p1", Quantity: 1, Attributes: map[string]string{"Size": "L"}},
	}

	merged := MergeGuestItems(user, guest, map[string]bool{"p1": true})
	require.Len(t, merged, 2)
}

func TestMergeGuestItemsSkipsBadEntries(t *testing.T) {
	guest := []models.GuestCartItem{
		{ProductID: "", Quantity: 2},
		{ProductID: "gone", Quantity: 2},
		{ProductID: "p1", Quantity: 0}, // quantity defaults to 1
	}

	merged := MergeGuestItems(nil, guest, map[string]bool{"p1": true})
	require.Len(t, merged, 1)
	assert.Equal(t, "p1", merged[0].ProductID)
	assert.Equal(t, 1, merged[0].Quantity)
}

func TestMergeGuestItemsClampsSum(t *testing.T) {
	user := []models.CartItem{{ProductID: "p1", Quantity: maxQuantity - 1}}
	guest := []models.GuestCartItem{{ProductID: "p1", Quantity: 10}}

	merged := MergeGuestItems(user, guest, map[string]bool{"p1": true})
	require.Len(t, merged, 1)
	assert.Equal(t, maxQuantity, merged[0].Quantity)
}

func TestMergeGuestItemsDoesNotMutateInput(t *testing.T) {
	user := []models.CartItem{{ProductID: "p1", Quantity: 1}}
	guest := []models.GuestCartItem{{ProductID: "p1", Quantity: 1}}

	_ = MergeGuestItems(user, guest, map[string]bool{"p1": true})
	assert.Equal(t, 1, user[0].Quantity)
}
