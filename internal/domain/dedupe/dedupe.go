// Package dedupe tracks feed event ids so each event is applied at most once.
package dedupe

import (
	"context"
	"sync"
)

// DefaultMaxSize is the number of ids remembered when no size is configured.
const DefaultMaxSize = 10000

// Deduper records seen event ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it
	// if not, in one atomic step.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a failed event can be resubmitted.
	Unrecord(ctx context.Context, id string)

	Size() int
}

type slot struct {
	id  string
	seq uint64
}

// inMemoryDeduper remembers the most recent maxSize ids and evicts the
// oldest first. maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]uint64
	ring    []slot
	next    int
	seq     uint64
	maxSize int
}

// New creates an in-memory deduper.
func New(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]uint64)
	if d.maxSize > 0 {
		d.ring = make([]slot, 0, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seq++
	d.seen[id] = d.seq
	if d.maxSize <= 0 {
		return false
	}

	if len(d.ring) < d.maxSize {
		d.ring = append(d.ring, slot{id: id, seq: d.seq})
		return false
	}
	oldest := d.ring[d.next]
	// A slot whose id was unrecorded and recorded again is stale.
	if seq, ok := d.seen[oldest.id]; ok && seq == oldest.seq {
		delete(d.seen, oldest.id)
	}
	d.ring[d.next] = slot{id: id, seq: d.seq}
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
