package providers

import (
	"math/rand"
	"sync/atomic"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/domain/providers"
)

// Selector chooses a provider per request. When every configured provider
// has an explicit non-negative weight it draws weighted-random; otherwise
// it falls back to round robin on a single shared counter. The provider
// list and weight map are immutable after startup, so selection reads are
// lock-free; only the round-robin counter is shared mutable state.
type Selector struct {
	registry *Registry
	names    []string
	weights  map[string]int
	rr       atomic.Uint64

	// randFloat returns a uniform draw from [0, 1); replaceable in tests.
	randFloat func() float64
}

// NewSelector creates a selector over the configured provider list. An
// empty list defaults to the registry's default provider.
func NewSelector(registry *Registry, names []string, weights map[string]int) *Selector {
	if len(names) == 0 {
		names = []string{registry.defaultName}
	}
	return &Selector{
		registry:  registry,
		names:     names,
		weights:   weights,
		randFloat: rand.Float64,
	}
}

// Select picks a provider for the request. Unknown or unregistered names
// resolve to the default provider rather than failing the request.
func (s *Selector) Select(_ *ads.RequestContext) providers.AdProvider {
	if name, ok := s.weightedPick(); ok {
		return s.resolve(name)
	}
	return s.resolve(s.roundRobinPick())
}

// weightedPick draws a provider by weight. It applies only when every
// configured provider has an explicit weight. The draw r is uniform in
// [0, totalWeight); the walk selects the first provider whose cumulative
// weight is >= r, so r = 0 deterministically selects the first
// positive-weight provider and the walk cannot fall through.
func (s *Selector) weightedPick() (string, bool) {
	total := 0
	for _, name := range s.names {
		weight, ok := s.weights[name]
		if !ok {
			return "", false
		}
		total += weight
	}
	if total <= 0 {
		return "", false
	}

	r := s.randFloat() * float64(total)
	cumulative := 0
	for _, name := range s.names {
		cumulative += s.weights[name]
		if float64(cumulative) >= r {
			return name, true
		}
	}
	// Unreachable when weights sum to total; kept for safety.
	return s.names[len(s.names)-1], true
}

// roundRobinPick cycles through the configured providers in order. The
// counter increment is atomic so concurrent selections never skip or
// repeat a slot.
func (s *Selector) roundRobinPick() string {
	idx := s.rr.Add(1) - 1
	return s.names[idx%uint64(len(s.names))]
}

func (s *Selector) resolve(name string) providers.AdProvider {
	if p, ok := s.registry.Get(name); ok {
		return p
	}
	return s.registry.Default()
}
