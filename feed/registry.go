package feed

import (
	"sync"
	"time"

	"github.com/quantfold/tickstream"
)

// TickStream is the window type the feed maintains per symbol: a price
// paired with its receive timestamp.
type TickStream = tickstream.PairedStream[float64, time.Time]

// Registry holds one paired window per symbol. Streams are created on first
// push and live until the registry is dropped.
type Registry struct {
	mu sync.RWMutex

	bound   int
	streams map[string]*TickStream
}

func NewRegistry(bound int) *Registry {
	return &Registry{
		bound:   bound,
		streams: make(map[string]*TickStream),
	}
}

// Get returns the stream for symbol, creating it if missing.
func (r *Registry) Get(symbol string) *TickStream {
	r.mu.RLock()
	st, ok := r.streams[symbol]
	r.mu.RUnlock()

	if ok {
		return st
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok = r.streams[symbol]; ok {
		return st
	}

	st = tickstream.NewPaired[float64, time.Time](r.bound)
	r.streams[symbol] = st

	return st
}

// Lookup returns the stream for symbol without creating it.
func (r *Registry) Lookup(symbol string) (*TickStream, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.streams[symbol]
	return st, ok
}

// Symbols returns the currently known symbols.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.streams))
	for sym := range r.streams {
		out = append(out, sym)
	}

	return out
}

// Len returns the number of registered symbols.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.streams)
}
