package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicedesk/voicedesk/internal/dialog"
)

// --- Grocer tests ---

func TestGrocerAddItemMergesQuantities(t *testing.T) {
	b, err := Bundle("grocer", testDeps(t))
	require.NoError(t, err)

	res, err := dispatch(t, b, "grocer", "add_item", `{"item_name":"masala dosa","quantity":2}`)
	require.NoError(t, err)
	assert.Equal(t, "Added Masala Dosa x2. Cart total ₹240.00.", res.Say)

	res, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Masala Dosa","quantity":3}`)
	require.NoError(t, err)
	assert.Equal(t, "Updated Masala Dosa to 5. Cart total ₹600.00.", res.Say)
}

func TestGrocerNotesKeepLinesSeparate(t *testing.T) {
	b, err := Bundle("grocer", testDeps(t))
	require.NoError(t, err)

	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Samosa","quantity":2}`)
	require.NoError(t, err)
	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Samosa","quantity":3,"notes":"extra spicy"}`)
	require.NoError(t, err)

	res, err := dispatch(t, b, "grocer", "list_cart", `{}`)
	require.NoError(t, err)
	assert.Equal(t, "Items: two Samosa @ ₹20.00, three Samosa (extra spicy) @ ₹20.00. Total ₹100.00.", res.Say)
}

func TestGrocerAddItemRejectsBadInput(t *testing.T) {
	b, err := Bundle("grocer", testDeps(t))
	require.NoError(t, err)

	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Milk","quantity":0}`)
	var ve *dialog.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Quantity must be at least 1.", ve.Message)

	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Caviar"}`)
	var nf *dialog.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Item not found in catalog.", nf.Message)

	res, err := dispatch(t, b, "grocer", "list_cart", `{}`)
	require.NoError(t, err)
	assert.Equal(t, "Your cart is empty.", res.Say)
}

func TestGrocerUpdateQuantity(t *testing.T) {
	b, err := Bundle("grocer", testDeps(t))
	require.NoError(t, err)

	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Milk"}`)
	require.NoError(t, err)

	res, err := dispatch(t, b, "grocer", "update_quantity", `{"item_name":"milk","quantity":4}`)
	require.NoError(t, err)
	assert.Equal(t, "Set Milk to 4. Cart total ₹120.00.", res.Say)

	_, err = dispatch(t, b, "grocer", "update_quantity", `{"item_name":"milk","quantity":-2}`)
	var ve *dialog.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = dispatch(t, b, "grocer", "update_quantity", `{"item_name":"bread","quantity":2}`)
	var nf *dialog.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Item not found in cart.", nf.Message)

	res, err = dispatch(t, b, "grocer", "list_cart", `{}`)
	require.NoError(t, err)
	assert.Equal(t, "Items: four Milk @ ₹30.00. Total ₹120.00.", res.Say)
}

func TestGrocerRemoveItem(t *testing.T) {
	b, err := Bundle("grocer", testDeps(t))
	require.NoError(t, err)

	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Milk"}`)
	require.NoError(t, err)
	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Sugar"}`)
	require.NoError(t, err)

	res, err := dispatch(t, b, "grocer", "remove_item", `{"item_name":"milk"}`)
	require.NoError(t, err)
	assert.Equal(t, "Removed milk. Cart total ₹45.00.", res.Say)

	_, err = dispatch(t, b, "grocer", "remove_item", `{"item_name":"milk"}`)
	var nf *dialog.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Item not found in cart.", nf.Message)
}

func TestGrocerListCatalogFilters(t *testing.T) {
	b, err := Bundle("grocer", testDeps(t))
	require.NoError(t, err)

	res, err := dispatch(t, b, "grocer", "list_catalog", `{"category":"prepared food"}`)
	require.NoError(t, err)
	assert.Equal(t, "Veg Biryani (₹150.00), Masala Dosa (₹120.00)", res.Say)

	res, err = dispatch(t, b, "grocer", "list_catalog", `{"tag":"spicy"}`)
	require.NoError(t, err)
	assert.Contains(t, res.Say, "Green Chilies")
	assert.Contains(t, res.Say, "Samosa")

	res, err = dispatch(t, b, "grocer", "list_catalog", `{"category":"frozen"}`)
	require.NoError(t, err)
	assert.Equal(t, "No items found.", res.Say)
}

func TestGrocerAddRecipeItems(t *testing.T) {
	b, err := Bundle("grocer", testDeps(t))
	require.NoError(t, err)

	res, err := dispatch(t, b, "grocer", "add_recipe_items", `{"recipe":"Dal","servings":2}`)
	require.NoError(t, err)
	assert.Equal(t, "Added Toor Dal x2, Turmeric Powder x2, Cumin Seeds x2, Ghee x2. Cart total ₹1640.00.", res.Say)

	_, err = dispatch(t, b, "grocer", "add_recipe_items", `{"recipe":"lasagna"}`)
	var nf *dialog.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Recipe not found.", nf.Message)
}

func TestGrocerPlaceOrder(t *testing.T) {
	deps := testDeps(t)
	b, err := Bundle("grocer", deps)
	require.NoError(t, err)

	_, err = dispatch(t, b, "grocer", "place_order", `{}`)
	var ve *dialog.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Your cart is empty.", ve.Message)

	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Milk","quantity":2}`)
	require.NoError(t, err)
	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Samosa","quantity":3}`)
	require.NoError(t, err)

	res, err := dispatch(t, b, "grocer", "place_order", `{"customer_name":"Ravi","customer_address":"12 Lake Road"}`)
	require.NoError(t, err)
	assert.Equal(t, "Order placed. 2 items, total ₹120.00. Saved.", res.Say)

	orders := deps.Orders.Load()
	require.Len(t, orders, 1)
	o := orders[0]
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "Ravi", o.CustomerName)
	assert.Equal(t, "12 Lake Road", o.CustomerAddress)
	assert.Equal(t, "INR", o.Currency)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 60.0, o.Items[0].LineTotal)
	assert.Equal(t, 120.0, o.Total)
	assert.False(t, o.PlacedAt.IsZero())
}

func TestGrocerRepeatPlaceOrderUpdatesSameRecord(t *testing.T) {
	deps := testDeps(t)
	b, err := Bundle("grocer", deps)
	require.NoError(t, err)

	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Milk","quantity":2}`)
	require.NoError(t, err)
	_, err = dispatch(t, b, "grocer", "place_order", `{"customer_name":"Ravi"}`)
	require.NoError(t, err)
	require.Len(t, deps.Orders.Load(), 1)
	firstID := deps.Orders.Load()[0].ID

	// Placing again after a cart change must update the record, not append
	// a second one.
	_, err = dispatch(t, b, "grocer", "add_item", `{"item_name":"Samosa","quantity":3}`)
	require.NoError(t, err)
	_, err = dispatch(t, b, "grocer", "place_order", `{}`)
	require.NoError(t, err)

	orders := deps.Orders.Load()
	require.Len(t, orders, 1)
	assert.Equal(t, firstID, orders[0].ID)
	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, 120.0, orders[0].Total)
}

func TestGrocerQtyWord(t *testing.T) {
	assert.Equal(t, "one", qtyWord(0))
	assert.Equal(t, "one", qtyWord(1))
	assert.Equal(t, "seven", qtyWord(7))
	assert.Equal(t, "twenty", qtyWord(20))
	assert.Equal(t, "21", qtyWord(21))
}
