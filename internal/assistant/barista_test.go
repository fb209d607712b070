package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Barista tests ---

func TestBaristaSlotPrompts(t *testing.T) {
	b, err := Bundle("barista", testDeps(t))
	require.NoError(t, err)

	res, err := dispatch(t, b, "barista", "set_name", `{"name":"Maya"}`)
	require.NoError(t, err)
	assert.Equal(t, "Hi Maya! Welcome to Cozy Cafe, what drink can I craft for you today?", res.Say)

	res, err = dispatch(t, b, "barista", "set_drink_type", `{"drink_type":"latte"}`)
	require.NoError(t, err)
	assert.Equal(t, "Nice pick, a latte! What size: small, medium, or large?", res.Say)

	res, err = dispatch(t, b, "barista", "set_size", `{"size":"large"}`)
	require.NoError(t, err)
	assert.Equal(t, "Gotcha, large size. Milk preference: whole, oat, almond, soy or none?", res.Say)

	res, err = dispatch(t, b, "barista", "set_milk", `{"milk":"oat"}`)
	require.NoError(t, err)
	assert.Equal(t, "Sweet! Any extras like syrup or whipped cream? Say 'none' if not.", res.Say)

	res, err = dispatch(t, b, "barista", "add_extra", `{"extra":"vanilla syrup"}`)
	require.NoError(t, err)
	assert.Equal(t, "Added vanilla syrup! Anything else, or good to go?", res.Say)
}

func TestBaristaSaveOrderReportsMissing(t *testing.T) {
	b, err := Bundle("barista", testDeps(t))
	require.NoError(t, err)

	res, err := dispatch(t, b, "barista", "save_order", `{}`)
	require.NoError(t, err)
	assert.Equal(t, "Almost there! Still need: name, drinkType, size, milk. Let's finish up.", res.Say)

	_, err = dispatch(t, b, "barista", "set_name", `{"name":"Maya"}`)
	require.NoError(t, err)
	_, err = dispatch(t, b, "barista", "set_milk", `{"milk":"oat"}`)
	require.NoError(t, err)

	res, err = dispatch(t, b, "barista", "save_order", `{}`)
	require.NoError(t, err)
	assert.Equal(t, "Almost there! Still need: drinkType, size. Let's finish up.", res.Say)
}

func TestBaristaSaveOrderWritesRecord(t *testing.T) {
	deps := testDeps(t)
	b, err := Bundle("barista", deps)
	require.NoError(t, err)

	steps := [][2]string{
		{"set_name", `{"name":"Maya"}`},
		{"set_drink_type", `{"drink_type":"latte"}`},
		{"set_size", `{"size":"large"}`},
		{"set_milk", `{"milk":"oat"}`},
		{"add_extra", `{"extra":"vanilla syrup"}`},
		{"add_extra", `{"extra":"whipped cream"}`},
	}
	for _, step := range steps {
		_, err := dispatch(t, b, "barista", step[0], step[1])
		require.NoError(t, err, step[0])
	}

	res, err := dispatch(t, b, "barista", "save_order", `{}`)
	require.NoError(t, err)
	assert.Equal(t,
		"Order Summary for Maya:\n- Large latte with oat milk + vanilla syrup, whipped cream\nReady in a flash at Cozy Cafe!",
		res.Say)

	orders := deps.Coffee.Load()
	require.Len(t, orders, 1)
	o := orders[0]
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "Maya", o.Name)
	assert.Equal(t, "latte", o.DrinkType)
	assert.Equal(t, "large", o.Size)
	assert.Equal(t, "oat", o.Milk)
	assert.Equal(t, []string{"vanilla syrup", "whipped cream"}, o.Extras)
	assert.False(t, o.Timestamp.IsZero())
}

func TestBaristaRepeatSaveUpdatesSameOrder(t *testing.T) {
	deps := testDeps(t)
	b, err := Bundle("barista", deps)
	require.NoError(t, err)

	steps := [][2]string{
		{"set_name", `{"name":"Maya"}`},
		{"set_drink_type", `{"drink_type":"latte"}`},
		{"set_size", `{"size":"large"}`},
		{"set_milk", `{"milk":"oat"}`},
	}
	for _, step := range steps {
		_, err := dispatch(t, b, "barista", step[0], step[1])
		require.NoError(t, err, step[0])
	}

	_, err = dispatch(t, b, "barista", "save_order", `{}`)
	require.NoError(t, err)
	require.Len(t, deps.Coffee.Load(), 1)
	firstID := deps.Coffee.Load()[0].ID

	// Changing a slot and saving again must update the record, not append
	// a second one.
	_, err = dispatch(t, b, "barista", "set_size", `{"size":"small"}`)
	require.NoError(t, err)
	_, err = dispatch(t, b, "barista", "save_order", `{}`)
	require.NoError(t, err)

	orders := deps.Coffee.Load()
	require.Len(t, orders, 1)
	assert.Equal(t, firstID, orders[0].ID)
	assert.Equal(t, "small", orders[0].Size)
}

func TestBaristaSaveOrderWithoutExtras(t *testing.T) {
	deps := testDeps(t)
	b, err := Bundle("barista", deps)
	require.NoError(t, err)

	steps := [][2]string{
		{"set_name", `{"name":"Dev"}`},
		{"set_drink_type", `{"drink_type":"cappuccino"}`},
		{"set_size", `{"size":"small"}`},
		{"set_milk", `{"milk":"whole"}`},
	}
	for _, step := range steps {
		_, err := dispatch(t, b, "barista", step[0], step[1])
		require.NoError(t, err, step[0])
	}

	res, err := dispatch(t, b, "barista", "save_order", `{}`)
	require.NoError(t, err)
	assert.Equal(t,
		"Order Summary for Dev:\n- Small cappuccino with whole milk\nReady in a flash at Cozy Cafe!",
		res.Say)

	require.Len(t, deps.Coffee.Load(), 1)
	assert.Empty(t, deps.Coffee.Load()[0].Extras)
}
