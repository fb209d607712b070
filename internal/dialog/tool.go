package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/voicedesk/voicedesk/internal/llm"
)

// Argument types a tool may declare.
const (
	ArgString = "string"
	ArgInt    = "int"
	ArgNumber = "number"
	ArgBool   = "bool"
)

// ArgSpec declares one argument of a tool.
type ArgSpec struct {
	Name        string
	Type        string // ArgString, ArgInt, ArgNumber, or ArgBool
	Description string
	Required    bool
}

// Args holds decoded argument values keyed by name. Values are typed per
// the declaring ArgSpec: string, int, float64, or bool.
type Args map[string]any

// Has reports whether the argument was provided.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns the named string argument, or "" if absent.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns the named int argument, or 0 if absent.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// Number returns the named number argument, or 0 if absent.
func (a Args) Number(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

// Bool returns the named bool argument, or false if absent.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Result is what a tool hands back: the line to speak, and optionally the
// role to switch to once the turn's remaining calls have run.
type Result struct {
	Say     string
	Handoff RoleID
}

// Handler executes a tool's effect with validated arguments.
type Handler func(ctx context.Context, args Args) (Result, error)

// Tool is a named, typed operation the model can invoke during a turn.
type Tool struct {
	Name        string
	Description string
	Args        []ArgSpec
	Run         Handler
}

// Schema renders the declared arguments as the JSON schema object that
// tool definitions advertise to the model.
func (t Tool) Schema() string {
	props := make(map[string]schemaProperty, len(t.Args))
	var required []string
	for _, a := range t.Args {
		props[a.Name] = schemaProperty{Type: schemaType(a.Type), Description: a.Description}
		if a.Required {
			required = append(required, a.Name)
		}
	}
	data, err := json.Marshal(inputSchema{Type: "object", Properties: props, Required: required})
	if err != nil {
		return `{"type":"object"}`
	}
	return string(data)
}

type inputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

type schemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

func schemaType(argType string) string {
	switch argType {
	case ArgInt:
		return "integer"
	case ArgNumber:
		return "number"
	case ArgBool:
		return "boolean"
	default:
		return "string"
	}
}

// ToolSet is the closed set of tools one role exposes.
type ToolSet struct {
	order []string
	tools map[string]Tool
}

// NewToolSet creates an empty tool set.
func NewToolSet() *ToolSet {
	return &ToolSet{tools: make(map[string]Tool)}
}

// MustToolSet builds a set from the given tools and panics on a duplicate
// name. For wiring fixed role tables at startup.
func MustToolSet(tools ...Tool) *ToolSet {
	s := NewToolSet()
	for _, t := range tools {
		if err := s.Register(t); err != nil {
			panic(err)
		}
	}
	return s
}

// Register adds a tool to the set.
func (s *ToolSet) Register(t Tool) error {
	if _, ok := s.tools[t.Name]; ok {
		return &DuplicateToolError{Tool: t.Name}
	}
	s.tools[t.Name] = t
	s.order = append(s.order, t.Name)
	return nil
}

// Get returns a tool by name.
func (s *ToolSet) Get(name string) (Tool, bool) {
	t, ok := s.tools[name]
	return t, ok
}

// Names returns the tool names in registration order.
func (s *ToolSet) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of registered tools.
func (s *ToolSet) Len() int { return len(s.tools) }

// Definitions returns model-ready tool definitions in registration order.
func (s *ToolSet) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(s.order))
	for _, name := range s.order {
		t := s.tools[name]
		defs = append(defs, llm.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Schema(),
		})
	}
	return defs
}

// Dispatch runs the named tool with raw JSON arguments. The name is
// resolved and every declared argument validated before the handler runs;
// the handler then runs exactly once, synchronously.
func (s *ToolSet) Dispatch(ctx context.Context, name, rawArgs string) (Result, error) {
	t, ok := s.tools[name]
	if !ok {
		return Result{}, &UnknownToolError{Tool: name}
	}
	args, err := decodeArgs(t, rawArgs)
	if err != nil {
		return Result{}, err
	}
	return t.Run(ctx, args)
}

// decodeArgs parses and validates raw JSON arguments against the tool's
// specs. Undeclared keys are dropped; a JSON null counts as absent.
func decodeArgs(t Tool, raw string) (Args, error) {
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	var in map[string]any
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, &ArgumentError{Tool: t.Name, Reason: "not a JSON object"}
	}
	out := make(Args, len(t.Args))
	for _, spec := range t.Args {
		v, ok := in[spec.Name]
		if !ok || v == nil {
			if spec.Required {
				return nil, &ArgumentError{Tool: t.Name, Arg: spec.Name, Reason: "required"}
			}
			continue
		}
		decoded, err := decodeValue(t.Name, spec, v)
		if err != nil {
			return nil, err
		}
		out[spec.Name] = decoded
	}
	return out, nil
}

func decodeValue(tool string, spec ArgSpec, v any) (any, error) {
	switch spec.Type {
	case ArgString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case ArgInt:
		if f, ok := v.(float64); ok && f == math.Trunc(f) {
			return int(f), nil
		}
	case ArgNumber:
		if f, ok := v.(float64); ok {
			return f, nil
		}
	case ArgBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}
	return nil, &ArgumentError{
		Tool:   tool,
		Arg:    spec.Name,
		Reason: fmt.Sprintf("want %s, got %s", spec.Type, jsonTypeName(v)),
	}
}

// jsonTypeName names a decoded JSON value's type for error messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "null"
	}
}
