package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: name + " test tool",
		Run: func(ctx context.Context, args Args) (Result, error) {
			return Result{Say: name + " ran"}, nil
		},
	}
}

// --- ToolSet tests ---

func TestToolSetRegisterDuplicate(t *testing.T) {
	set := NewToolSet()
	require.NoError(t, set.Register(noopTool("add_item")))

	err := set.Register(noopTool("add_item"))
	require.Error(t, err)

	var dup *DuplicateToolError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "add_item", dup.Tool)
	assert.Equal(t, 1, set.Len())
}

func TestMustToolSetPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		MustToolSet(noopTool("echo"), noopTool("echo"))
	})
}

func TestToolSetNamesKeepOrder(t *testing.T) {
	set := MustToolSet(noopTool("load_case"), noopTool("verify_answer"), noopTool("finalize_case"))
	assert.Equal(t, []string{"load_case", "verify_answer", "finalize_case"}, set.Names())
}

func TestToolSetGet(t *testing.T) {
	set := MustToolSet(noopTool("echo"))

	tool, ok := set.Get("echo")
	assert.True(t, ok)
	assert.Equal(t, "echo", tool.Name)

	_, ok = set.Get("nonexistent")
	assert.False(t, ok)
}

func TestToolSetDefinitions(t *testing.T) {
	set := MustToolSet(
		Tool{Name: "search_faq", Description: "Look up an answer", Args: []ArgSpec{
			{Name: "query", Type: ArgString, Required: true},
		}},
		noopTool("list_cart"),
	)

	defs := set.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "search_faq", defs[0].Name)
	assert.Equal(t, "Look up an answer", defs[0].Description)
	assert.Contains(t, defs[0].InputSchema, `"query"`)
	assert.Equal(t, "list_cart", defs[1].Name)
	assert.NotEmpty(t, defs[1].InputSchema)
}

// --- Dispatch tests ---

func TestDispatchUnknownTool(t *testing.T) {
	set := MustToolSet(noopTool("echo"))

	_, err := set.Dispatch(context.Background(), "teleport", "{}")
	require.Error(t, err)

	var unknown *UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "teleport", unknown.Tool)
}

func TestDispatchRunsHandlerOnce(t *testing.T) {
	runs := 0
	set := MustToolSet(Tool{
		Name: "echo",
		Args: []ArgSpec{{Name: "text", Type: ArgString, Required: true}},
		Run: func(ctx context.Context, args Args) (Result, error) {
			runs++
			return Result{Say: "you said " + args.String("text")}, nil
		},
	})

	result, err := set.Dispatch(context.Background(), "echo", `{"text":"hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "you said hello", result.Say)
	assert.Equal(t, 1, runs)
}

func TestDispatchValidatesBeforeHandler(t *testing.T) {
	ran := false
	set := MustToolSet(Tool{
		Name: "update_quantity",
		Args: []ArgSpec{
			{Name: "item", Type: ArgString, Required: true},
			{Name: "quantity", Type: ArgInt, Required: true},
			{Name: "notes", Type: ArgString},
		},
		Run: func(ctx context.Context, args Args) (Result, error) {
			ran = true
			return Result{Say: fmt.Sprintf("%s x%d", args.String("item"), args.Int("quantity"))}, nil
		},
	})
	dispatch := func(raw string) error {
		_, err := set.Dispatch(context.Background(), "update_quantity", raw)
		return err
	}

	t.Run("missing required", func(t *testing.T) {
		ran = false
		err := dispatch(`{"item":"dosa"}`)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, "quantity", argErr.Arg)
		assert.Equal(t, "required", argErr.Reason)
		assert.False(t, ran, "handler must not run on invalid arguments")
	})

	t.Run("null counts as missing", func(t *testing.T) {
		ran = false
		err := dispatch(`{"item":"dosa","quantity":null}`)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, "quantity", argErr.Arg)
		assert.False(t, ran)
	})

	t.Run("mistyped required", func(t *testing.T) {
		ran = false
		err := dispatch(`{"item":"dosa","quantity":"three"}`)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, "quantity", argErr.Arg)
		assert.Contains(t, argErr.Reason, "want int")
		assert.Contains(t, argErr.Reason, "got string")
		assert.False(t, ran)
	})

	t.Run("fractional int rejected", func(t *testing.T) {
		ran = false
		err := dispatch(`{"item":"dosa","quantity":2.5}`)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, "quantity", argErr.Arg)
		assert.False(t, ran)
	})

	t.Run("mistyped optional", func(t *testing.T) {
		ran = false
		err := dispatch(`{"item":"dosa","quantity":2,"notes":7}`)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, "notes", argErr.Arg)
		assert.False(t, ran)
	})

	t.Run("valid", func(t *testing.T) {
		ran = false
		result, err := set.Dispatch(context.Background(), "update_quantity", `{"item":"dosa","quantity":3}`)
		require.NoError(t, err)
		assert.True(t, ran)
		assert.Equal(t, "dosa x3", result.Say)
	})

	t.Run("bad JSON", func(t *testing.T) {
		ran = false
		err := dispatch(`{{{`)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Empty(t, argErr.Arg)
		assert.False(t, ran)
	})
}

func TestDispatchEmptyArgsForToolWithoutRequired(t *testing.T) {
	var got Args
	set := MustToolSet(Tool{
		Name: "list_cart",
		Args: []ArgSpec{{Name: "verbose", Type: ArgBool}},
		Run: func(ctx context.Context, args Args) (Result, error) {
			got = args
			return Result{Say: "cart listed"}, nil
		},
	})

	result, err := set.Dispatch(context.Background(), "list_cart", "")
	require.NoError(t, err)
	assert.Equal(t, "cart listed", result.Say)
	assert.False(t, got.Has("verbose"))
	assert.False(t, got.Bool("verbose"))
}

func TestDispatchDropsUndeclaredArgs(t *testing.T) {
	var got Args
	set := MustToolSet(Tool{
		Name: "log_checkin",
		Args: []ArgSpec{{Name: "mood", Type: ArgString, Required: true}},
		Run: func(ctx context.Context, args Args) (Result, error) {
			got = args
			return Result{}, nil
		},
	})

	_, err := set.Dispatch(context.Background(), "log_checkin", `{"mood":"calm","surprise":true}`)
	require.NoError(t, err)
	assert.Equal(t, "calm", got.String("mood"))
	assert.False(t, got.Has("surprise"))
}

func TestDispatchNumberAndBoolDecoding(t *testing.T) {
	var got Args
	set := MustToolSet(Tool{
		Name: "record_reading",
		Args: []ArgSpec{
			{Name: "amount", Type: ArgNumber, Required: true},
			{Name: "is_legit", Type: ArgBool, Required: true},
		},
		Run: func(ctx context.Context, args Args) (Result, error) {
			got = args
			return Result{}, nil
		},
	})

	_, err := set.Dispatch(context.Background(), "record_reading", `{"amount":12499,"is_legit":false}`)
	require.NoError(t, err)
	assert.Equal(t, 12499.0, got.Number("amount"))
	assert.False(t, got.Bool("is_legit"))

	_, err = set.Dispatch(context.Background(), "record_reading", `{"amount":"big","is_legit":false}`)
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "amount", argErr.Arg)
}

func TestDispatchPassesHandlerErrorThrough(t *testing.T) {
	set := MustToolSet(Tool{
		Name: "verify_answer",
		Run: func(ctx context.Context, args Args) (Result, error) {
			return Result{}, &NotFoundError{Message: "No case loaded."}
		},
	})

	_, err := set.Dispatch(context.Background(), "verify_answer", "{}")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "No case loaded.", nf.Message)
}

// --- Schema tests ---

func TestToolSchema(t *testing.T) {
	tool := Tool{
		Name: "save_order",
		Args: []ArgSpec{
			{Name: "name", Type: ArgString, Description: "customer name", Required: true},
			{Name: "quantity", Type: ArgInt, Required: true},
			{Name: "price", Type: ArgNumber},
			{Name: "spicy", Type: ArgBool},
		},
	}

	var parsed struct {
		Type       string `json:"type"`
		Properties map[string]struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	require.NoError(t, json.Unmarshal([]byte(tool.Schema()), &parsed))

	assert.Equal(t, "object", parsed.Type)
	assert.Equal(t, "string", parsed.Properties["name"].Type)
	assert.Equal(t, "customer name", parsed.Properties["name"].Description)
	assert.Equal(t, "integer", parsed.Properties["quantity"].Type)
	assert.Equal(t, "number", parsed.Properties["price"].Type)
	assert.Equal(t, "boolean", parsed.Properties["spicy"].Type)
	assert.Equal(t, []string{"name", "quantity"}, parsed.Required)
}

func TestToolSchemaNoArgs(t *testing.T) {
	schema := Tool{Name: "list_cart"}.Schema()
	assert.JSONEq(t, `{"type":"object","properties":{}}`, schema)
}

// --- Error taxonomy tests ---

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `tool "echo" already registered`, (&DuplicateToolError{Tool: "echo"}).Error())
	assert.Equal(t, `unknown tool "teleport"`, (&UnknownToolError{Tool: "teleport"}).Error())
	assert.Equal(t, `tool "echo" argument "text": required`, (&ArgumentError{Tool: "echo", Arg: "text", Reason: "required"}).Error())
	assert.Equal(t, `tool "echo" arguments: not a JSON object`, (&ArgumentError{Tool: "echo", Reason: "not a JSON object"}).Error())
	assert.Equal(t, "Quantity must be at least 1.", (&ValidationError{Message: "Quantity must be at least 1."}).Error())
}

func TestPersistenceErrorUnwrap(t *testing.T) {
	sentinel := errors.New("disk full")
	err := &PersistenceError{Message: "I couldn't save that right now.", Err: sentinel}

	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "I couldn't save that right now.", (&PersistenceError{Message: "I couldn't save that right now."}).Error())
}

func TestSpokenError(t *testing.T) {
	assert.Equal(t, "No case loaded.",
		SpokenError(&NotFoundError{Message: "No case loaded."}))
	assert.Equal(t, "Quantity must be at least 1.",
		SpokenError(&ValidationError{Message: "Quantity must be at least 1."}))
	assert.Equal(t, "I couldn't save your order just now.",
		SpokenError(&PersistenceError{Message: "I couldn't save your order just now.", Err: errors.New("disk full")}))

	// Wrapped handler errors still map to their phrasing.
	wrapped := fmt.Errorf("dispatch: %w", &ValidationError{Message: "Quantity must be at least 1."})
	assert.Equal(t, "Quantity must be at least 1.", SpokenError(wrapped))

	// Everything else gets the generic recovery line.
	generic := "Sorry, I couldn't complete that. Could you try again?"
	assert.Equal(t, generic, SpokenError(&UnknownToolError{Tool: "teleport"}))
	assert.Equal(t, generic, SpokenError(&ArgumentError{Tool: "echo", Arg: "text", Reason: "required"}))
	assert.Equal(t, generic, SpokenError(errors.New("boom")))
}

// --- Args tests ---

func TestArgsGetters(t *testing.T) {
	args := Args{"name": "Priya", "count": 3, "amount": 249.5, "spicy": true}

	assert.Equal(t, "Priya", args.String("name"))
	assert.Equal(t, 3, args.Int("count"))
	assert.Equal(t, 249.5, args.Number("amount"))
	assert.True(t, args.Bool("spicy"))
	assert.True(t, args.Has("name"))

	assert.Equal(t, "", args.String("missing"))
	assert.Equal(t, 0, args.Int("missing"))
	assert.Equal(t, 0.0, args.Number("missing"))
	assert.False(t, args.Bool("missing"))
	assert.False(t, args.Has("missing"))
}
