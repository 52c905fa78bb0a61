package procurement

import (
	"github.com/procureflow/backend/internal/domain/shared"
)

// documentStatus constrains state machines to the closed status enums defined
// per document type.
type documentStatus interface {
	~string
}

// StateMachine validates status transitions for one document type. Each
// allowed edge carries the actor class required to take it; guards and side
// effects stay on the aggregates, which consult the machine before mutating.
type StateMachine[S documentStatus] struct {
	document string
	initial  S
	terminal map[S]struct{}
	rules    map[S]map[S]shared.ActorClass
}

// NewStateMachine creates a machine for the named document type
func NewStateMachine[S documentStatus](document string, initial S) *StateMachine[S] {
	return &StateMachine[S]{
		document: document,
		initial:  initial,
		terminal: make(map[S]struct{}),
		rules:    make(map[S]map[S]shared.ActorClass),
	}
}

// Allow registers a transition and the actor class required to take it
func (m *StateMachine[S]) Allow(from, to S, actor shared.ActorClass) *StateMachine[S] {
	if _, ok := m.rules[from]; !ok {
		m.rules[from] = make(map[S]shared.ActorClass)
	}
	m.rules[from][to] = actor
	return m
}

// MarkTerminal marks states that permit no outgoing transitions
func (m *StateMachine[S]) MarkTerminal(states ...S) *StateMachine[S] {
	for _, s := range states {
		m.terminal[s] = struct{}{}
	}
	return m
}

// Initial returns the initial status
func (m *StateMachine[S]) Initial() S {
	return m.initial
}

// IsTerminal reports whether the status permits no outgoing transitions
func (m *StateMachine[S]) IsTerminal(s S) bool {
	_, ok := m.terminal[s]
	return ok
}

// CanTransition reports whether the edge from -> to exists
func (m *StateMachine[S]) CanTransition(from, to S) bool {
	if m.IsTerminal(from) {
		return false
	}
	targets, ok := m.rules[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// RequiredActor returns the actor class an edge demands, and whether the edge
// exists at all
func (m *StateMachine[S]) RequiredActor(from, to S) (shared.ActorClass, bool) {
	targets, ok := m.rules[from]
	if !ok {
		return "", false
	}
	actor, ok := targets[to]
	return actor, ok
}

// Authorize checks an attempted transition: first that the edge exists, then
// that the acting class matches the edge's required actor. The order matters:
// an illegal edge reports INVALID_TRANSITION even when the actor would also
// have been wrong.
func (m *StateMachine[S]) Authorize(from, to S, actor shared.ActorClass) error {
	if !m.CanTransition(from, to) {
		return shared.NewInvalidTransitionError(m.document, string(from), string(to))
	}
	required, _ := m.RequiredActor(from, to)
	if actor != required {
		return shared.NewForbiddenActorError(actor, m.document, string(to))
	}
	return nil
}

// OutgoingStates returns the reachable targets from a status
func (m *StateMachine[S]) OutgoingStates(from S) []S {
	if m.IsTerminal(from) {
		return nil
	}
	targets := m.rules[from]
	out := make([]S, 0, len(targets))
	for to := range targets {
		out = append(out, to)
	}
	return out
}
