package tools

import (
	"encoding/json"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Toolset groups related tools. Tools() is a pure query with no side
// effects; it may be called any number of times.
type Toolset interface {
	// Name returns the toolset identifier.
	Name() string

	// Tools returns all tools provided by this toolset.
	Tools() []*ExecutableTool
}

// Tool is the metadata surface of a registered tool. Execution lives on
// ExecutableTool.
type Tool interface {
	// Name returns the unique tool identifier.
	Name() string

	// Description tells the model when to call the tool.
	Description() string

	// IsLongRunning marks tools that spawn the external delegate and may
	// run for minutes.
	IsLongRunning() bool
}

// ExecutableTool couples tool metadata with a type-erased handler so
// heterogeneous tools can be stored together while keeping compile-time
// type safety at the definition site.
type ExecutableTool struct {
	name        string
	description string
	longRunning bool

	handler func(*ai.ToolContext, any) (Result, error)
	// define registers the tool with genkit under its concrete input
	// type, so the model sees a proper parameter schema.
	define func(g *genkit.Genkit)
}

// Name returns the tool identifier.
func (t *ExecutableTool) Name() string { return t.name }

// Description returns the tool description.
func (t *ExecutableTool) Description() string { return t.description }

// IsLongRunning reports whether the tool may run for minutes.
func (t *ExecutableTool) IsLongRunning() bool { return t.longRunning }

// Execute runs the tool. Input may be the concrete input struct or a
// map[string]any from JSON arguments.
func (t *ExecutableTool) Execute(ctx *ai.ToolContext, input any) (Result, error) {
	return t.handler(ctx, input)
}

// NewTool creates a tool with a typed handler. The type adapter accepts
// either the concrete In value or anything JSON-coercible to it, which is
// how genkit delivers model arguments.
func NewTool[In any](
	name string,
	description string,
	longRunning bool,
	handler func(*ai.ToolContext, In) (Result, error),
) *ExecutableTool {
	var zero In

	erased := func(ctx *ai.ToolContext, input any) (Result, error) {
		if typed, ok := input.(In); ok {
			return handler(ctx, typed)
		}

		raw, err := json.Marshal(input)
		if err != nil {
			return Result{}, fmt.Errorf("marshaling input for %s: %w", name, err)
		}
		var typed In
		if err := json.Unmarshal(raw, &typed); err != nil {
			return Result{}, fmt.Errorf("invalid input for %s: expected %T: %w", name, zero, err)
		}
		return handler(ctx, typed)
	}

	return &ExecutableTool{
		name:        name,
		description: description,
		longRunning: longRunning,
		handler:     erased,
		define: func(g *genkit.Genkit) {
			genkit.DefineTool(g, name, description, handler)
		},
	}
}

// Define registers the tool with a genkit instance.
func (t *ExecutableTool) Define(g *genkit.Genkit) {
	t.define(g)
}
