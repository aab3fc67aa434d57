// Package tail follows the activity topic and logs each event.
package tail

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/logger"
)

// Registrar is satisfied by *kafka.Consumer.
type Registrar interface {
	RegisterHandler(eventType string, handler kafka.EventHandler)
}

type Tail struct {
	consumed *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Tail {
	t := &Tail{
		consumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_tail_events_consumed_total",
			Help: "Activity events read from Kafka, by event type",
		}, []string{"event_type"}),
	}
	reg.MustRegister(t.consumed)
	return t
}

// Register subscribes the tail to every activity event type.
func (t *Tail) Register(r Registrar) {
	for _, eventType := range kafka.EventTypes() {
		r.RegisterHandler(eventType, t.Handle)
	}
}

func (t *Tail) Handle(ctx context.Context, event kafka.ActivityEvent) error {
	t.consumed.WithLabelValues(event.EventType).Inc()

	e := logger.Info(ctx).
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Uint("user_id", event.UserID).
		Uint("product_id", event.ProductID).
		Time("at", event.Timestamp)
	if event.Quantity != 0 {
		e = e.Int("quantity", event.Quantity)
	}
	e.Msg("Activity event")
	return nil
}
