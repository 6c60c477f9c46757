package pipeline

import (
	"time"
)

// Policy holds the engine's configurable behavior knobs.
type Policy struct {
	// DenyBlockedTransitions rejects stage transitions for blocked
	// clients when enabled. Off by default: the blocked flag is a
	// visible marker, not a transition gate, unless an operator opts in.
	DenyBlockedTransitions bool
}

// Engine composes the capability matrix, stage graph, blocking subsystem
// and action protocol into a single authorization surface. An Engine is
// stateless between calls: every operation takes a client snapshot and
// returns a new snapshot or a typed error, leaving the input untouched.
type Engine struct {
	matrix  *Matrix
	catalog ActionCatalog
	policy  Policy
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatrix replaces the built-in capability matrix.
func WithMatrix(m *Matrix) Option {
	return func(e *Engine) {
		if m != nil {
			e.matrix = m
		}
	}
}

// WithActionCatalog replaces the built-in action catalog.
func WithActionCatalog(c ActionCatalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithPolicy sets the engine policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// New creates an engine with the built-in matrix and action catalog.
func New(opts ...Option) *Engine {
	e := &Engine{
		matrix:  DefaultMatrix(),
		catalog: DefaultActionCatalog(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Matrix returns the engine's capability matrix.
func (e *Engine) Matrix() *Matrix {
	return e.matrix
}

// Catalog returns the engine's action catalog.
func (e *Engine) Catalog() ActionCatalog {
	return e.catalog
}
