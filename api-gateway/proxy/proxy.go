// Package proxy forwards gateway requests to upstream services.
package proxy

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/eco-catalog/api-gateway/config"
	"github.com/tair/eco-catalog/api-gateway/loadbalancer"
	"github.com/tair/eco-catalog/api-gateway/middleware"
	"github.com/tair/eco-catalog/pkg/logger"
)

var hopHeaders = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailer":             true,
	"transfer-encoding":   true,
	"upgrade":             true,
	"host":                true,
	"content-length":      true,
}

type upstream struct {
	client   *http.Client
	balancer *loadbalancer.RoundRobin
}

// ReverseProxy handles proxying requests to backend services
type ReverseProxy struct {
	upstreams map[string]upstream
}

// NewReverseProxy creates a proxy with one balancer and client per service
func NewReverseProxy(services map[string]config.ServiceConfig) *ReverseProxy {
	upstreams := make(map[string]upstream, len(services))
	for name, svc := range services {
		upstreams[name] = upstream{
			client:   &http.Client{Timeout: svc.Timeout},
			balancer: loadbalancer.NewRoundRobin(name, svc.Instances),
		}
	}
	return &ReverseProxy{upstreams: upstreams}
}

// Handler returns a fiber handler forwarding to service
func (p *ReverseProxy) Handler(service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return p.Forward(c, service)
	}
}

// Forward sends the request to the next instance of service and copies the
// response back. Transport failures become 502.
func (p *ReverseProxy) Forward(c *fiber.Ctx, service string) error {
	up, ok := p.upstreams[service]
	if !ok {
		return middleware.Error(c, fiber.StatusBadGateway, "unknown upstream "+service)
	}
	target := up.balancer.Next()
	if target == "" {
		return middleware.Error(c, fiber.StatusBadGateway, "no instances available for "+service)
	}

	url := target + string(c.Request().URI().RequestURI())
	req, err := http.NewRequestWithContext(c.UserContext(), c.Method(), url, bytes.NewReader(c.Body()))
	if err != nil {
		return middleware.Error(c, fiber.StatusInternalServerError, "failed to build upstream request")
	}
	copyRequestHeaders(c, req)

	resp, err := up.client.Do(req)
	if err != nil {
		logger.Warn(c.UserContext()).
			Err(err).
			Str("service", service).
			Str("target", target).
			Msg("Upstream request failed")
		return middleware.Error(c, fiber.StatusBadGateway, service+" service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return middleware.Error(c, fiber.StatusBadGateway, "failed to read upstream response")
	}

	for key, values := range resp.Header {
		if hopHeaders[strings.ToLower(key)] {
			continue
		}
		for _, v := range values {
			c.Response().Header.Add(key, v)
		}
	}
	c.Status(resp.StatusCode)
	return c.Send(body)
}

func copyRequestHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		k := string(key)
		if hopHeaders[strings.ToLower(k)] {
			return
		}
		req.Header.Add(k, string(value))
	})

	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
}
