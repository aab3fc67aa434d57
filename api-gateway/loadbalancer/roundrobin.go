// Package loadbalancer picks upstream instances for the gateway.
package loadbalancer

import (
	"sync/atomic"

	"github.com/tair/eco-catalog/pkg/logger"
)

// RoundRobin cycles through a fixed set of instances
type RoundRobin struct {
	service   string
	instances []string
	next      atomic.Uint64
}

// NewRoundRobin creates a balancer over instances. The slice is copied.
func NewRoundRobin(service string, instances []string) *RoundRobin {
	logger.Logger.Info().
		Str("service", service).
		Strs("instances", instances).
		Msg("Round-robin load balancer initialized")

	return &RoundRobin{
		service:   service,
		instances: append([]string(nil), instances...),
	}
}

// Next returns the next instance, or "" when there are none
func (rr *RoundRobin) Next() string {
	if len(rr.instances) == 0 {
		return ""
	}
	n := rr.next.Add(1) - 1
	return rr.instances[n%uint64(len(rr.instances))]
}

// Instances returns a copy of the configured instances
func (rr *RoundRobin) Instances() []string {
	return append([]string(nil), rr.instances...)
}
