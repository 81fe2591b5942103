package match

import (
	"time"

	"github.com/okian/scoreboard/internal/domain/ident"
)

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithIDGenerator sets the generator match ids are drawn from.
func WithIDGenerator(g *ident.Generator) Option {
	return func(r *Registry) {
		if g != nil {
			r.ids = g
		}
	}
}

// WithClock sets the time source used for match timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithStrictLifecycle makes the registry reject out-of-order transitions:
// start only from REGISTERED, score updates and finish only while IN_PROGRESS.
func WithStrictLifecycle(strict bool) Option {
	return func(r *Registry) {
		r.strict = strict
	}
}
