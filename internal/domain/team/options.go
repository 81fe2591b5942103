package team

import "github.com/okian/scoreboard/internal/domain/ident"

// DefaultMaxNameLength bounds team names, in runes.
const DefaultMaxNameLength = 64

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithIDGenerator sets the generator team ids are drawn from.
func WithIDGenerator(g *ident.Generator) Option {
	return func(r *Registry) {
		if g != nil {
			r.ids = g
		}
	}
}

// WithMaxNameLength bounds team names in runes. Zero or negative disables the bound.
func WithMaxNameLength(n int) Option {
	return func(r *Registry) {
		r.maxNameLength = n
	}
}
