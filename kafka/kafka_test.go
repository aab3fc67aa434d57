package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(msg *sarama.ProducerMessage, key string) string {
	for _, h := range msg.Headers {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublishActivity(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewPublisherWithProducer(producer, "")
	p.now = func() time.Time { return fixed }

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, TopicCatalogActivity, msg.Topic)

		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "user_7", string(key))

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var event ActivityEvent
		require.NoError(t, json.Unmarshal(value, &event))
		assert.Equal(t, EventTypeCartItemAdded, event.EventType)
		assert.Equal(t, uint(3), event.ProductID)
		assert.Equal(t, 2, event.Quantity)
		assert.NotEmpty(t, event.EventID)
		assert.True(t, fixed.Equal(event.Timestamp))

		assert.Equal(t, EventTypeCartItemAdded, header(msg, "event_type"))
		assert.Equal(t, event.EventID, header(msg, "event_id"))
		return nil
	})

	err := p.PublishActivity(context.Background(), ActivityEvent{
		EventType: EventTypeCartItemAdded,
		UserID:    7,
		ProductID: 3,
		Quantity:  2,
	})
	require.NoError(t, err)
}

func TestPublishActivityKeepsCallerIDs(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event ActivityEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.EventID != "evt-1" {
			return errors.New("event id was replaced")
		}
		return nil
	})

	err := NewPublisherWithProducer(producer, "audit").PublishActivity(context.Background(), ActivityEvent{
		EventID:   "evt-1",
		EventType: EventTypeProductViewed,
		UserID:    1,
		ProductID: 2,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
}

func TestPublishActivityFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := NewPublisherWithProducer(producer, "").PublishActivity(context.Background(), ActivityEvent{
		EventType: EventTypeWishlistItemAdded,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestNoopPublisher(t *testing.T) {
	var p ActivityPublisher = NoopPublisher{}
	assert.NoError(t, p.PublishActivity(context.Background(), ActivityEvent{}))
	assert.NoError(t, p.Close())
}

func consumerMessage(t *testing.T, eventType string, event ActivityEvent) *sarama.ConsumerMessage {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)

	msg := &sarama.ConsumerMessage{Topic: TopicCatalogActivity, Value: value}
	if eventType != "" {
		msg.Headers = []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(eventType)}}
	}
	return msg
}

func TestConsumerDispatchesByEventType(t *testing.T) {
	c := newConsumer(nil, "test", []string{TopicCatalogActivity})
	var got []ActivityEvent
	c.RegisterHandler(EventTypeProductViewed, func(_ context.Context, e ActivityEvent) error {
		got = append(got, e)
		return nil
	})
	h := &consumerGroupHandler{consumer: c}

	err := h.handleMessage(context.Background(), consumerMessage(t, EventTypeProductViewed,
		ActivityEvent{EventID: "a", EventType: EventTypeProductViewed, UserID: 1, ProductID: 9}))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(9), got[0].ProductID)

	err = h.handleMessage(context.Background(), consumerMessage(t, EventTypeCartItemAdded, ActivityEvent{}))
	assert.Error(t, err, "no handler registered")

	err = h.handleMessage(context.Background(), consumerMessage(t, "", ActivityEvent{}))
	assert.Error(t, err, "missing event_type header")
	assert.Len(t, got, 1)
}

func TestConsumerReportsHandlerAndDecodeErrors(t *testing.T) {
	c := newConsumer(nil, "test", nil)
	boom := errors.New("boom")
	c.RegisterHandler(EventTypeCartItemRemoved, func(context.Context, ActivityEvent) error { return boom })
	h := &consumerGroupHandler{consumer: c}

	err := h.handleMessage(context.Background(), consumerMessage(t, EventTypeCartItemRemoved, ActivityEvent{}))
	assert.ErrorIs(t, err, boom)

	msg := consumerMessage(t, EventTypeCartItemRemoved, ActivityEvent{})
	msg.Value = []byte("{not json")
	err = h.handleMessage(context.Background(), msg)
	assert.Error(t, err)
}

func TestEventTypesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, et := range EventTypes() {
		assert.False(t, seen[et], et)
		seen[et] = true
	}
	assert.Len(t, seen, 6)
}
