package middleware

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker/v2"

	"github.com/tair/eco-catalog/pkg/logger"
)

var errUpstreamStatus = errors.New("upstream returned a server error")

// BreakerSettings configures every per-service breaker
type BreakerSettings struct {
	MaxFailures uint32
	OpenTimeout time.Duration
	HalfOpenMax uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{MaxFailures: 5, OpenTimeout: 30 * time.Second, HalfOpenMax: 3}
}

// Breakers holds one circuit breaker per upstream service
type Breakers struct {
	settings BreakerSettings
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[int]
}

func NewBreakers(settings BreakerSettings) *Breakers {
	return &Breakers{settings: settings, breakers: make(map[string]*gobreaker.CircuitBreaker[int])}
}

func (b *Breakers) get(service string) *gobreaker.CircuitBreaker[int] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := b.breakers[service]; ok {
		return cb
	}
	maxFailures := b.settings.MaxFailures
	cb := gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        service,
		MaxRequests: b.settings.HalfOpenMax,
		Timeout:     b.settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Logger.Warn().
				Str("service", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
	b.breakers[service] = cb
	return cb
}

// Middleware guards the rest of the chain for service. A 5xx response or a
// handler error counts as a failure. While open, requests get 503 without
// reaching the upstream.
func (b *Breakers) Middleware(service string) fiber.Handler {
	cb := b.get(service)
	return func(c *fiber.Ctx) error {
		_, err := cb.Execute(func() (int, error) {
			if err := c.Next(); err != nil {
				return 0, err
			}
			status := c.Response().StatusCode()
			if status >= fiber.StatusInternalServerError {
				return status, errUpstreamStatus
			}
			return status, nil
		})

		switch {
		case err == nil, errors.Is(err, errUpstreamStatus):
			return nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(b.settings.OpenTimeout.Seconds())))
			return Error(c, fiber.StatusServiceUnavailable, service+" service temporarily unavailable")
		default:
			return err
		}
	}
}

// States reports the current state of every breaker by service
func (b *Breakers) States() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]string, len(b.breakers))
	for name, cb := range b.breakers {
		out[name] = cb.State().String()
	}
	return out
}
