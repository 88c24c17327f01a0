// Package breaker wraps sony/gobreaker with the settings shared by all
// outbound service clients.
package breaker

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/steadybroo69-afk/gym/pkg/logx"
)

// New returns a circuit breaker that opens after 5 consecutive failures and
// probes again after 30 seconds.
func New[T any](name string) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logx.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
}
