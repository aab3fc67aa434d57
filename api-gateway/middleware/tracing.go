package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// requestHeaderCarrier adapts fiber request headers to the otel propagator.
type requestHeaderCarrier struct {
	c *fiber.Ctx
}

func (h requestHeaderCarrier) Get(key string) string { return h.c.Get(key) }

func (h requestHeaderCarrier) Set(key, value string) { h.c.Request().Header.Set(key, value) }

func (h requestHeaderCarrier) Keys() []string {
	var keys []string
	h.c.Request().Header.VisitAll(func(k, _ []byte) {
		keys = append(keys, string(k))
	})
	return keys
}

// Tracing continues any incoming trace, opens a server span and rewrites the
// trace headers so the proxied request carries the gateway span.
func Tracing() fiber.Handler {
	tracer := otel.Tracer("api-gateway")

	return func(c *fiber.Ctx) error {
		carrier := requestHeaderCarrier{c: c}
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)

		ctx, span := tracer.Start(ctx, "gateway "+c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.OriginalURL()),
				attribute.String("http.client_ip", c.IP()),
				attribute.String("http.user_agent", c.Get(fiber.HeaderUserAgent)),
			),
		)
		defer span.End()

		c.SetUserContext(ctx)
		otel.GetTextMapPropagator().Inject(ctx, carrier)
		if span.SpanContext().HasTraceID() {
			c.Set("X-Trace-Id", span.SpanContext().TraceID().String())
		}

		err := c.Next()

		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, "upstream error")
		}
		return err
	}
}

var _ propagation.TextMapCarrier = requestHeaderCarrier{}
