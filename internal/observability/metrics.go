package observability

import "sync"

// Registry is an in-process counter set implementing port/metrics.Sink.
// Counters are created on first increment; Snapshot feeds the metrics
// endpoint.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]int64
}

func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]int64)}
}

func (r *Registry) Inc(name string) {
	r.mu.Lock()
	r.counters[name]++
	r.mu.Unlock()
}

func (r *Registry) Snapshot() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int64, len(r.counters))
	for name, value := range r.counters {
		out[name] = value
	}
	return out
}
