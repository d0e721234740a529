package workflow

import (
	"fmt"

	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
)

// Graph is an immutable, role-gated transition graph for one aggregate.
// An edge must exist between two states AND the actor role must be listed
// on that edge for a transition to be legal; the two checks are independent,
// so a structurally illegal edge is rejected even for ADMIN.
type Graph struct {
	name     string
	states   map[State]bool
	terminal map[State]bool
	edges    map[State]map[State]map[Role]bool
}

// GraphBuilder builds a configured transition graph
type GraphBuilder struct {
	graph *Graph
}

// StateConfiguration configures outgoing edges for a specific state
type StateConfiguration struct {
	builder *GraphBuilder
	from    State
}

// NewBuilder creates a builder for a graph over the given set of valid states
func NewBuilder(name string, states ...State) *GraphBuilder {
	g := &Graph{
		name:     name,
		states:   make(map[State]bool, len(states)),
		terminal: make(map[State]bool),
		edges:    make(map[State]map[State]map[Role]bool),
	}
	for _, s := range states {
		g.states[s] = true
	}
	return &GraphBuilder{graph: g}
}

// Terminal marks states as terminal: they keep no outgoing edges and are
// excluded from Configure-time wildcard helpers such as PermitFromAll.
func (b *GraphBuilder) Terminal(states ...State) *GraphBuilder {
	for _, s := range states {
		if !b.graph.states[s] {
			panic(fmt.Sprintf("graph %s: terminal state %s not declared", b.graph.name, s))
		}
		b.graph.terminal[s] = true
	}
	return b
}

// Configure returns a configuration for edges leaving the given state
func (b *GraphBuilder) Configure(from State) *StateConfiguration {
	if !b.graph.states[from] {
		panic(fmt.Sprintf("graph %s: state %s not declared", b.graph.name, from))
	}
	return &StateConfiguration{builder: b, from: from}
}

// PermitFromAll adds an edge to the target state from every non-terminal
// state except the target itself, gated by the given roles.
func (b *GraphBuilder) PermitFromAll(to State, roles ...Role) *GraphBuilder {
	for s := range b.graph.states {
		if s == to || b.graph.terminal[s] {
			continue
		}
		b.Configure(s).Permit(to, roles...)
	}
	return b
}

// Build finalizes the graph. The builder must not be reused afterwards.
func (b *GraphBuilder) Build() *Graph {
	return b.graph
}

// Permit adds an edge from the configured state to the target state,
// allowed only for the given roles.
func (c *StateConfiguration) Permit(to State, roles ...Role) *StateConfiguration {
	g := c.builder.graph
	if !g.states[to] {
		panic(fmt.Sprintf("graph %s: target state %s not declared", g.name, to))
	}
	if g.terminal[c.from] {
		panic(fmt.Sprintf("graph %s: terminal state %s cannot have outgoing edges", g.name, c.from))
	}
	if len(roles) == 0 {
		panic(fmt.Sprintf("graph %s: edge %s -> %s declared without roles", g.name, c.from, to))
	}

	targets, ok := g.edges[c.from]
	if !ok {
		targets = make(map[State]map[Role]bool)
		g.edges[c.from] = targets
	}
	allowed, ok := targets[to]
	if !ok {
		allowed = make(map[Role]bool, len(roles))
		targets[to] = allowed
	}
	for _, r := range roles {
		allowed[r] = true
	}
	return c
}

// Name returns the graph name, used in error messages and logs
func (g *Graph) Name() string {
	return g.name
}

// IsValid returns true if the state belongs to this graph
func (g *Graph) IsValid(s State) bool {
	return g.states[s]
}

// IsTerminal returns true if the state has been marked terminal
func (g *Graph) IsTerminal(s State) bool {
	return g.terminal[s]
}

// EdgeExists returns true if the (from, to) pair is on the graph,
// regardless of role.
func (g *Graph) EdgeExists(from, to State) bool {
	targets, ok := g.edges[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// CanTransition returns true if the edge exists and the role is allowed on it
func (g *Graph) CanTransition(from, to State, role Role) bool {
	targets, ok := g.edges[from]
	if !ok {
		return false
	}
	allowed, ok := targets[to]
	if !ok {
		return false
	}
	return allowed[role]
}

// AssertTransition validates the transition and returns a typed failure:
// domainerr.ErrInvalidTransition when the edge is not on the graph,
// domainerr.ErrUnauthorized when the edge exists but the role is not listed.
func (g *Graph) AssertTransition(from, to State, role Role, entityID string) error {
	if !g.EdgeExists(from, to) {
		return fmt.Errorf("%w: %s %s cannot move %s -> %s",
			domainerr.ErrInvalidTransition, g.name, entityID, from, to)
	}
	if !g.CanTransition(from, to, role) {
		return fmt.Errorf("%w: role %s cannot move %s %s from %s to %s",
			domainerr.ErrUnauthorized, role, g.name, entityID, from, to)
	}
	return nil
}

// PermittedTargets returns the states reachable from the given state for a role
func (g *Graph) PermittedTargets(from State, role Role) []State {
	targets := g.edges[from]
	out := make([]State, 0, len(targets))
	for to, allowed := range targets {
		if allowed[role] {
			out = append(out, to)
		}
	}
	return out
}
