// Package ident issues unique, strictly increasing integer identifiers.
package ident

import "sync/atomic"

// Generator hands out identifiers starting at 1. Identifiers are never
// reused. The zero value is ready to use and safe for concurrent callers.
type Generator struct {
	last atomic.Int64
}

// New returns a fresh generator.
func New() *Generator {
	return &Generator{}
}

// Next returns the next identifier.
func (g *Generator) Next() int {
	return int(g.last.Add(1))
}
