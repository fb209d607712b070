package assistant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/voicedesk/voicedesk/internal/dialog"
	"github.com/voicedesk/voicedesk/internal/domain"
)

const grocerInstructions = "You are a friendly ordering assistant for SafeBazaar. " +
	"Greet the user, explain you can help order groceries, snacks, and simple prepared foods. " +
	"Ask for clarifications when needed such as size, brand, and quantity. " +
	"Use tools to add, remove, update, and list cart items, and to add recipe ingredients. You can list catalog items by category (including Prepared Food) or by tags like vegetarian, vegan, gluten-free, or spicy. " +
	"Confirm cart changes out loud after each tool call so the user knows what happened. " +
	"When the user says they are done, call `place_order` to finalize, summarize the cart and total, and save the order. " +
	"Refuse harmful or inappropriate requests and do not claim to know private user information."

// grocerState holds the live cart and the delivery details gathered along
// the way. The order id is assigned when the first order is placed and
// reused after that, so placing again updates the same record.
type grocerState struct {
	cart    domain.Cart
	orderID string
	name    string
	address string
}

// qtyWords spell out small cart quantities the way a person would.
var qtyWords = [...]string{
	"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	"eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen",
	"eighteen", "nineteen", "twenty",
}

func qtyWord(n int) string {
	if n < 1 {
		n = 1
	}
	if n <= len(qtyWords) {
		return qtyWords[n-1]
	}
	return strconv.Itoa(n)
}

// inr formats an amount in rupees with two decimals.
func inr(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

// Grocer builds the grocery-ordering assistant: catalog-checked cart
// mutations with spoken confirmations, recipe expansion, and a durable
// order record on checkout.
func Grocer(deps Deps) dialog.Bundle {
	st := &grocerState{}

	tools := dialog.MustToolSet(
		dialog.Tool{
			Name:        "list_catalog",
			Description: "List catalog items, optionally filtered by category or tag.",
			Args: []dialog.ArgSpec{
				{Name: "category", Type: dialog.ArgString, Description: "Category filter, such as Staples or Prepared Food."},
				{Name: "tag", Type: dialog.ArgString, Description: "Tag filter, such as vegetarian or spicy."},
			},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				items := deps.Catalog.FilterProducts(args.String("category"), args.String("tag"))
				if len(items) == 0 {
					return dialog.Result{Say: "No items found."}, nil
				}
				if len(items) > 25 {
					items = items[:25]
				}
				parts := make([]string, len(items))
				for i, p := range items {
					parts[i] = fmt.Sprintf("%s (%s)", p.Name, inr(p.Price))
				}
				return dialog.Result{Say: strings.Join(parts, ", ")}, nil
			},
		},
		dialog.Tool{
			Name:        "add_item",
			Description: "Add a catalog item to the cart.",
			Args: []dialog.ArgSpec{
				{Name: "item_name", Type: dialog.ArgString, Description: "Catalog item name.", Required: true},
				{Name: "quantity", Type: dialog.ArgInt, Description: "How many to add, default one."},
				{Name: "notes", Type: dialog.ArgString, Description: "Free-text qualifier such as ripe or extra spicy."},
			},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				qty := 1
				if args.Has("quantity") {
					qty = args.Int("quantity")
				}
				if qty <= 0 {
					return dialog.Result{}, &dialog.ValidationError{Message: "Quantity must be at least 1."}
				}
				p, ok := deps.Catalog.FindProduct(args.String("item_name"))
				if !ok {
					return dialog.Result{}, &dialog.NotFoundError{Message: "Item not found in catalog."}
				}
				line, merged := st.cart.Add(domain.CartItem{
					Name:     p.Name,
					Price:    p.Price,
					Quantity: qty,
					Notes:    args.String("notes"),
					Category: p.Category,
				})
				if merged {
					return dialog.Result{Say: fmt.Sprintf("Updated %s to %d. Cart total %s.", line.Name, line.Quantity, inr(st.cart.Total()))}, nil
				}
				return dialog.Result{Say: fmt.Sprintf("Added %s x%d. Cart total %s.", line.Name, line.Quantity, inr(st.cart.Total()))}, nil
			},
		},
		dialog.Tool{
			Name:        "remove_item",
			Description: "Remove an item from the cart.",
			Args:        []dialog.ArgSpec{{Name: "item_name", Type: dialog.ArgString, Description: "Cart item name.", Required: true}},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				name := args.String("item_name")
				if !st.cart.Remove(name) {
					return dialog.Result{}, &dialog.NotFoundError{Message: "Item not found in cart."}
				}
				return dialog.Result{Say: fmt.Sprintf("Removed %s. Cart total %s.", name, inr(st.cart.Total()))}, nil
			},
		},
		dialog.Tool{
			Name:        "update_quantity",
			Description: "Set the quantity of a cart item.",
			Args: []dialog.ArgSpec{
				{Name: "item_name", Type: dialog.ArgString, Description: "Cart item name.", Required: true},
				{Name: "quantity", Type: dialog.ArgInt, Description: "The new quantity.", Required: true},
			},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				qty := args.Int("quantity")
				if qty <= 0 {
					return dialog.Result{}, &dialog.ValidationError{Message: "Quantity must be at least 1."}
				}
				line, ok := st.cart.SetQuantity(args.String("item_name"), qty)
				if !ok {
					return dialog.Result{}, &dialog.NotFoundError{Message: "Item not found in cart."}
				}
				return dialog.Result{Say: fmt.Sprintf("Set %s to %d. Cart total %s.", line.Name, qty, inr(st.cart.Total()))}, nil
			},
		},
		dialog.Tool{
			Name:        "list_cart",
			Description: "Read back the cart contents and total.",
			Run: func(_ context.Context, _ dialog.Args) (dialog.Result, error) {
				items := st.cart.Items()
				if len(items) == 0 {
					return dialog.Result{Say: "Your cart is empty."}, nil
				}
				parts := make([]string, len(items))
				for i, it := range items {
					d := fmt.Sprintf("%s %s", qtyWord(it.Quantity), it.Name)
					if it.Notes != "" {
						d += fmt.Sprintf(" (%s)", it.Notes)
					}
					parts[i] = d + " @ " + inr(it.Price)
				}
				return dialog.Result{Say: fmt.Sprintf("Items: %s. Total %s.", strings.Join(parts, ", "), inr(st.cart.Total()))}, nil
			},
		},
		dialog.Tool{
			Name:        "add_recipe_items",
			Description: "Add every catalog ingredient of a recipe to the cart.",
			Args: []dialog.ArgSpec{
				{Name: "recipe", Type: dialog.ArgString, Description: "Recipe name, such as masala chai or dal.", Required: true},
				{Name: "servings", Type: dialog.ArgInt, Description: "Servings to cook, default one."},
			},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				ingredients, ok := deps.Catalog.Recipe(args.String("recipe"))
				if !ok {
					return dialog.Result{}, &dialog.NotFoundError{Message: "Recipe not found."}
				}
				qty := args.Int("servings")
				if qty < 1 {
					qty = 1
				}
				var added []string
				for _, name := range ingredients {
					p, ok := deps.Catalog.FindProduct(name)
					if !ok {
						continue
					}
					st.cart.Add(domain.CartItem{Name: p.Name, Price: p.Price, Quantity: qty, Category: p.Category})
					added = append(added, fmt.Sprintf("%s x%d", p.Name, qty))
				}
				if len(added) == 0 {
					return dialog.Result{}, &dialog.NotFoundError{Message: "None of that recipe's ingredients are in the catalog."}
				}
				return dialog.Result{Say: fmt.Sprintf("Added %s. Cart total %s.", strings.Join(added, ", "), inr(st.cart.Total()))}, nil
			},
		},
		dialog.Tool{
			Name:        "place_order",
			Description: "Finalize the cart into a saved order.",
			Args: []dialog.ArgSpec{
				{Name: "customer_name", Type: dialog.ArgString, Description: "Name for the delivery."},
				{Name: "customer_address", Type: dialog.ArgString, Description: "Delivery address."},
			},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				if st.cart.Len() == 0 {
					return dialog.Result{}, &dialog.ValidationError{Message: "Your cart is empty."}
				}
				if v := strings.TrimSpace(args.String("customer_name")); v != "" {
					st.name = v
				}
				if v := strings.TrimSpace(args.String("customer_address")); v != "" {
					st.address = v
				}
				if st.orderID == "" {
					st.orderID = uuid.New().String()
				}
				order := st.cart.Order(st.name, st.address)
				order.ID = st.orderID
				order.PlacedAt = time.Now()
				if err := deps.Orders.Upsert(order); err != nil {
					return dialog.Result{}, &dialog.PersistenceError{Message: "I couldn't place the order just now. Please try again.", Err: err}
				}
				return dialog.Result{Say: fmt.Sprintf("Order placed. %d items, total %s. Saved.", len(order.Items), inr(order.Total))}, nil
			},
		},
	)

	return dialog.Bundle{
		Assistant: "grocer",
		Start:     "grocer",
		Roles: map[dialog.RoleID]*dialog.Role{
			"grocer": {
				ID:           "grocer",
				Instructions: grocerInstructions,
				Tools:        tools,
				Voice:        "en-IN-Isha",
			},
		},
	}
}
