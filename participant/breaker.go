package participant

import (
	"sync"

	"github.com/sony/gobreaker/v2"
)

// breakerGroup lazily creates one circuit breaker per participant endpoint.
// Breakers count transport failures only; malformed payloads mean the
// endpoint is reachable and do not trip it.
type breakerGroup struct {
	mu       sync.Mutex
	opts     Options
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
}

func newBreakerGroup(opts Options) *breakerGroup {
	return &breakerGroup{opts: opts, breakers: make(map[string]*gobreaker.CircuitBreaker[[]byte])}
}

// get returns the breaker for an endpoint, creating it if needed. Returns nil
// when breakers are disabled.
func (g *breakerGroup) get(endpoint string) *gobreaker.CircuitBreaker[[]byte] {
	if !g.opts.BreakerEnabled {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if breaker, exists := g.breakers[endpoint]; exists {
		return breaker
	}

	threshold := g.opts.BreakerFailureThreshold
	settings := gobreaker.Settings{
		Name:    endpoint,
		Timeout: g.opts.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.opts.Logger.Warn("participant breaker state changed", "endpoint", name, "from", from.String(), "to", to.String())
		},
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](settings)
	g.breakers[endpoint] = breaker
	return breaker
}
