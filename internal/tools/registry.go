package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"
	"github.com/oceankit/oceankit/internal/log"
)

// Registry holds every registered tool and dispatches invocations. It is
// built once at startup and read-only afterwards, so it needs no locking.
type Registry struct {
	toolsets []Toolset
	tools    map[string]*ExecutableTool
	logger   log.Logger
}

// NewRegistry builds a registry from toolsets. Duplicate tool names are a
// programming error and rejected.
func NewRegistry(logger log.Logger, toolsets ...Toolset) (*Registry, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	r := &Registry{
		toolsets: toolsets,
		tools:    make(map[string]*ExecutableTool),
		logger:   logger,
	}
	for _, ts := range toolsets {
		if ts == nil {
			return nil, fmt.Errorf("nil toolset")
		}
		for _, t := range ts.Tools() {
			if _, exists := r.tools[t.Name()]; exists {
				return nil, fmt.Errorf("duplicate tool name %q in toolset %s", t.Name(), ts.Name())
			}
			if _, ok := GetMetadata(t.Name()); !ok {
				return nil, fmt.Errorf("tool %q has no metadata entry", t.Name())
			}
			r.tools[t.Name()] = t
		}
	}
	r.logger.Info("Tool registry built", "toolsets", len(toolsets), "tools", len(r.tools))
	return r, nil
}

// Get returns one tool by name.
func (r *Registry) Get(name string) (*ExecutableTool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all tool names sorted for stable listings.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every tool sorted by name.
func (r *Registry) All() []*ExecutableTool {
	all := make([]*ExecutableTool, 0, len(r.tools))
	for _, name := range r.Names() {
		all = append(all, r.tools[name])
	}
	return all
}

// Count returns the number of registered tools.
func (r *Registry) Count() int { return len(r.tools) }

// Register defines every tool on a genkit instance so a model can call
// them.
func (r *Registry) Register(g *genkit.Genkit) {
	for _, t := range r.All() {
		t.Define(g)
	}
	r.logger.Info("Tools registered with genkit", "count", len(r.tools))
}

// Refs returns genkit tool references for every registered tool, for
// passing to a generate call.
func (r *Registry) Refs(g *genkit.Genkit) []ai.ToolRef {
	refs := make([]ai.ToolRef, 0, len(r.tools))
	for _, name := range r.Names() {
		if ref := genkit.LookupTool(g, name); ref != nil {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Dispatch runs one tool by name. Unknown tools and handler panics come
// back as error Results, never as a crash; each invocation gets a unique
// ID stamped on its Result for correlation with logs.
func (r *Registry) Dispatch(ctx context.Context, name string, input any) Result {
	id := uuid.NewString()
	logger := r.logger.With("tool", name, "invocation_id", id)

	t, ok := r.tools[name]
	if !ok {
		logger.Warn("Unknown tool requested")
		res := Errorf(ErrCodeNotFound, fmt.Sprintf("unknown tool %q (have %v)", name, r.Names()))
		res.InvocationID = id
		return res
	}

	logger.Info("Dispatching tool")
	res, err := t.Execute(&ai.ToolContext{Context: ctx}, input)
	if err != nil {
		logger.Error("Tool execution failed", "error", err)
		res = Errorf(ErrCodeInternal, err.Error())
	}
	res.InvocationID = id
	if res.Status == StatusError && res.Error != nil {
		logger.Warn("Tool reported failure", "code", res.Error.Code, "message", res.Error.Message)
	} else {
		logger.Info("Tool finished", "status", res.Status)
	}
	return res
}
