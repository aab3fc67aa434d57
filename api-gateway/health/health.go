// Package health reports gateway liveness and upstream readiness.
package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tair/eco-catalog/api-gateway/config"
	"github.com/tair/eco-catalog/pkg/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// InstanceHealth is the probe result for one upstream instance
type InstanceHealth struct {
	URL       string `json:"url"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// ServiceHealth aggregates the instances of one service
type ServiceHealth struct {
	Name      string           `json:"name"`
	Status    string           `json:"status"`
	Instances []InstanceHealth `json:"instances"`
}

// GatewayHealth represents the overall gateway health
type GatewayHealth struct {
	Gateway       string                   `json:"gateway"`
	Status        string                   `json:"status"`
	Services      map[string]ServiceHealth `json:"services"`
	UptimeSeconds float64                  `json:"uptime_seconds"`
}

// Checker probes the health endpoint of every upstream instance
type Checker struct {
	services  map[string]config.ServiceConfig
	client    *http.Client
	startTime time.Time
}

func NewChecker(services map[string]config.ServiceConfig) *Checker {
	return &Checker{
		services:  services,
		client:    &http.Client{Timeout: 5 * time.Second},
		startTime: time.Now(),
	}
}

func (h *Checker) Uptime() time.Duration {
	return time.Since(h.startTime)
}

func (h *Checker) probe(ctx context.Context, url string) InstanceHealth {
	start := time.Now()
	result := InstanceHealth{URL: url, Status: StatusUnhealthy}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	resp, err := h.client.Do(req)
	result.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("unexpected status code %d", resp.StatusCode)
		return result
	}
	result.Status = StatusHealthy
	return result
}

// CheckAll probes every instance concurrently.
func (h *Checker) CheckAll(ctx context.Context) GatewayHealth {
	services := make(map[string]ServiceHealth, len(h.services))
	var wg sync.WaitGroup

	for name, svc := range h.services {
		instances := make([]InstanceHealth, len(svc.Instances))
		for i, base := range svc.Instances {
			wg.Add(1)
			go func(i int, url string) {
				defer wg.Done()
				instances[i] = h.probe(ctx, url)
			}(i, base+svc.HealthCheck)
		}
		services[name] = ServiceHealth{Name: name, Instances: instances}
	}
	wg.Wait()

	statuses := make([]string, 0, len(services))
	for name, svc := range services {
		instanceStatuses := make([]string, 0, len(svc.Instances))
		for _, inst := range svc.Instances {
			instanceStatuses = append(instanceStatuses, inst.Status)
			if inst.Status != StatusHealthy {
				logger.Logger.Warn().
					Str("service", name).
					Str("url", inst.URL).
					Str("error", inst.Error).
					Msg("Upstream health check failed")
			}
		}
		svc.Status = Combine(instanceStatuses)
		services[name] = svc
		statuses = append(statuses, svc.Status)
	}

	return GatewayHealth{
		Gateway:       "api-gateway",
		Status:        Combine(statuses),
		Services:      services,
		UptimeSeconds: h.Uptime().Seconds(),
	}
}

// Combine is healthy when every part is healthy and unhealthy when every
// part is unhealthy. Anything else is degraded. An empty list is unhealthy.
func Combine(statuses []string) string {
	var healthy, unhealthy int
	for _, s := range statuses {
		switch s {
		case StatusHealthy:
			healthy++
		case StatusUnhealthy:
			unhealthy++
		}
	}
	switch {
	case len(statuses) == 0 || unhealthy == len(statuses):
		return StatusUnhealthy
	case healthy == len(statuses):
		return StatusHealthy
	default:
		return StatusDegraded
	}
}
