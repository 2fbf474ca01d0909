package circuit

import "sync"

// Registry manages one Breaker per key so concurrent operations against the
// same logical dependency share breaker state.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*Breaker
	defaults Config
}

// NewRegistry creates a registry whose breakers inherit defaults from cfg.
// The cfg.Key field is ignored; keys come from Get.
func NewRegistry(defaults Config) *Registry {
	return &Registry{
		breakers: make(map[string]*Breaker),
		defaults: defaults,
	}
}

// Get returns the breaker for key, creating it on first use.
func (r *Registry) Get(key string) *Breaker {
	r.mu.RLock()
	b, ok := r.breakers[key]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[key]; ok {
		return b
	}

	cfg := r.defaults
	cfg.Key = key
	b = NewBreaker(cfg)
	r.breakers[key] = b
	return b
}

// GetWith returns the breaker for key, creating it with cfg on first use.
// An existing breaker keeps its original configuration.
func (r *Registry) GetWith(key string, cfg Config) *Breaker {
	r.mu.RLock()
	b, ok := r.breakers[key]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[key]; ok {
		return b
	}

	cfg.Key = key
	b = NewBreaker(cfg)
	r.breakers[key] = b
	return b
}

// Keys returns the keys of all known breakers.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.breakers))
	for k := range r.breakers {
		keys = append(keys, k)
	}
	return keys
}
