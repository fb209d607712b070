package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/voicedesk/voicedesk/internal/dialog"
	"github.com/voicedesk/voicedesk/internal/domain"
)

const baristaInstructions = `You are a friendly and enthusiastic coffee shop barista at Cozy Cafe.

Your main responsibilities are:
- Greet customers warmly when they arrive
- Take their coffee orders (espresso, latte, cappuccino, americano, cold brew, etc.)
- Ask about size preferences (small, medium, large)
- Offer customizations (milk type: whole, oat, almond, soy; extra shots, flavor syrups)
- Suggest popular items or daily specials
- Confirm orders clearly before finalizing
- Be conversational and friendly, like a real barista

Once all details are collected (name, drinkType, size, milk, extras), call save_order to complete the order.
Avoid complex formatting, emojis, or special characters in your responses.

Be helpful, upbeat, and make customers feel welcome!`

// baristaState holds the order slots filled across a session. Empty strings
// mean the slot has not been offered yet. The record id is assigned on the
// first save and reused after that, so a repeat save updates the same order.
type baristaState struct {
	id        string
	name      string
	drinkType string
	size      string
	milk      string
	extras    []string
}

// missing lists the required slots still unset, in slot order.
func (s *baristaState) missing() []string {
	var out []string
	if s.name == "" {
		out = append(out, "name")
	}
	if s.drinkType == "" {
		out = append(out, "drinkType")
	}
	if s.size == "" {
		out = append(out, "size")
	}
	if s.milk == "" {
		out = append(out, "milk")
	}
	return out
}

// Barista builds the coffee-ordering assistant: slot setters plus an extras
// accumulator over a single role, with the completed order saved as a
// durable record once every required slot is filled.
func Barista(deps Deps) dialog.Bundle {
	st := &baristaState{}

	tools := dialog.MustToolSet(
		dialog.Tool{
			Name:        "set_name",
			Description: "Set the customer's name.",
			Args:        []dialog.ArgSpec{{Name: "name", Type: dialog.ArgString, Description: "The customer's name.", Required: true}},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				st.name = args.String("name")
				return dialog.Result{Say: fmt.Sprintf("Hi %s! Welcome to Cozy Cafe, what drink can I craft for you today?", st.name)}, nil
			},
		},
		dialog.Tool{
			Name:        "set_drink_type",
			Description: "Set the drink type (e.g., latte, espresso).",
			Args:        []dialog.ArgSpec{{Name: "drink_type", Type: dialog.ArgString, Description: "The drink the customer wants.", Required: true}},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				st.drinkType = args.String("drink_type")
				return dialog.Result{Say: fmt.Sprintf("Nice pick, a %s! What size: small, medium, or large?", st.drinkType)}, nil
			},
		},
		dialog.Tool{
			Name:        "set_size",
			Description: "Set the size (small, medium, large).",
			Args:        []dialog.ArgSpec{{Name: "size", Type: dialog.ArgString, Description: "small, medium, or large.", Required: true}},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				st.size = args.String("size")
				return dialog.Result{Say: fmt.Sprintf("Gotcha, %s size. Milk preference: whole, oat, almond, soy or none?", st.size)}, nil
			},
		},
		dialog.Tool{
			Name:        "set_milk",
			Description: "Set the milk type (whole, oat, almond, soy or none).",
			Args:        []dialog.ArgSpec{{Name: "milk", Type: dialog.ArgString, Description: "The milk preference.", Required: true}},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				st.milk = args.String("milk")
				return dialog.Result{Say: "Sweet! Any extras like syrup or whipped cream? Say 'none' if not."}, nil
			},
		},
		dialog.Tool{
			Name:        "add_extra",
			Description: "Add an extra to the order (call multiple times if needed).",
			Args:        []dialog.ArgSpec{{Name: "extra", Type: dialog.ArgString, Description: "One extra, such as vanilla syrup.", Required: true}},
			Run: func(_ context.Context, args dialog.Args) (dialog.Result, error) {
				extra := args.String("extra")
				st.extras = append(st.extras, extra)
				return dialog.Result{Say: fmt.Sprintf("Added %s! Anything else, or good to go?", extra)}, nil
			},
		},
		dialog.Tool{
			Name:        "save_order",
			Description: "Save the order once all fields are set and read back the summary.",
			Run: func(_ context.Context, _ dialog.Args) (dialog.Result, error) {
				if missing := st.missing(); len(missing) > 0 {
					return dialog.Result{Say: fmt.Sprintf("Almost there! Still need: %s. Let's finish up.", strings.Join(missing, ", "))}, nil
				}
				if st.id == "" {
					st.id = uuid.New().String()
				}
				order := domain.CoffeeOrder{
					ID:        st.id,
					Name:      st.name,
					DrinkType: st.drinkType,
					Size:      st.size,
					Milk:      st.milk,
					Extras:    append([]string(nil), st.extras...),
					Timestamp: time.Now(),
				}
				if err := deps.Coffee.Upsert(order); err != nil {
					return dialog.Result{}, &dialog.PersistenceError{Message: "I couldn't save that order just now. Mind trying once more?", Err: err}
				}
				extras := ""
				if len(st.extras) > 0 {
					extras = " + " + strings.Join(st.extras, ", ")
				}
				say := fmt.Sprintf("Order Summary for %s:\n- %s %s with %s milk%s\nReady in a flash at Cozy Cafe!",
					st.name, titleWord(st.size), st.drinkType, st.milk, extras)
				return dialog.Result{Say: say}, nil
			},
		},
	)

	return dialog.Bundle{
		Assistant: "barista",
		Start:     "barista",
		Roles: map[dialog.RoleID]*dialog.Role{
			"barista": {
				ID:           "barista",
				Instructions: baristaInstructions,
				Tools:        tools,
				Voice:        "en-US-molly",
			},
		},
	}
}

// titleWord uppercases the first letter for the spoken order summary.
func titleWord(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) == 0 {
		return ""
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
