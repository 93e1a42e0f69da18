package circuitbreaker

import "sync"

// Set lazily creates one circuit breaker per key from a shared base configuration.
// Feed fetching keys it by host so that one dead server does not open the circuit
// for every other feed.
type Set struct {
	base Config

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewSet returns an empty Set. Each breaker is named "<base.Name>:<key>".
func NewSet(base Config) *Set {
	return &Set{base: base, breakers: make(map[string]*CircuitBreaker)}
}

// Get returns the breaker for key, creating it on first use.
func (s *Set) Get(key string) *CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, ok := s.breakers[key]; ok {
		return cb
	}
	cfg := s.base
	cfg.Name = s.base.Name + ":" + key
	cb := New(cfg)
	s.breakers[key] = cb
	return cb
}

// Execute runs fn through the breaker for key.
func (s *Set) Execute(key string, fn func() (interface{}, error)) (interface{}, error) {
	return s.Get(key).Execute(fn)
}

// Open returns the keys whose circuit is currently open.
func (s *Set) Open() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for k, cb := range s.breakers {
		if cb.IsOpen() {
			keys = append(keys, k)
		}
	}
	return keys
}
