// Package agents contains the framework-translation agents: independent,
// side-effect-free units that each restructure the same parsed brain dump
// into one productivity-methodology view. Agents are pure functions of
// (ParsedInput, UserContext); only the SemanticAgent talks to a backend.
package agents

import (
	"context"
	"fmt"

	"mindmesh/internal/types"
)

// Framework names. These are the keys used for tier entitlement and for the
// agentsExecuted metadata list.
const (
	FrameworkAgile    = "Agile"
	FrameworkKanban   = "Kanban"
	FrameworkGTD      = "GTD"
	FrameworkPARA     = "PARA"
	FrameworkCustom   = "Custom"
	FrameworkSemantic = "Semantic"
)

// Response is any framework response that can slot itself into the aggregate.
type Response interface {
	Apply(*types.FrameworkResults)
}

// FrameworkAgent transforms parsed input into one methodology view.
// Implementations must not mutate their inputs and must be safe for
// concurrent use; the factory fans them out in parallel.
type FrameworkAgent interface {
	Name() string
	Process(ctx context.Context, parsed *types.ParsedInput, user *types.UserContext) (Response, error)
}

// validateContext fails fast on a malformed energy state. Every agent
// branches on it unconditionally, so a silent default would just move the
// surprise downstream.
func validateContext(user *types.UserContext) error {
	if user == nil {
		return fmt.Errorf("nil user context: %w", types.ErrInvalidEnergyState)
	}
	if !user.EnergyState.Valid() {
		return fmt.Errorf("energy state %q: %w", user.EnergyState, types.ErrInvalidEnergyState)
	}
	return nil
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry is the dispatch table keyed by framework name. Registration order
// is preserved so execution and metadata ordering stay deterministic.
type Registry struct {
	agents map[string]FrameworkAgent
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]FrameworkAgent)}
}

// Register adds an agent, replacing any previous agent with the same name.
func (r *Registry) Register(a FrameworkAgent) {
	name := a.Name()
	if _, exists := r.agents[name]; !exists {
		r.order = append(r.order, name)
	}
	r.agents[name] = a
}

// Get returns the agent registered under name.
func (r *Registry) Get(name string) (FrameworkAgent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// Names returns the registered framework names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry returns a registry with the five deterministic framework
// agents. The SemanticAgent is not registered here: it needs an embedding
// backend and runs before the fan-out, not inside it.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&AgileAgent{})
	r.Register(&KanbanAgent{})
	r.Register(&GTDAgent{})
	r.Register(&PARAAgent{})
	r.Register(&CustomAgent{})
	return r
}
