package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/smallbiznis/telco360/internal/orders/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	fail      error
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	f.declared = append(f.declared, name+"/"+kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.fail != nil {
		return f.fail
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestAMQPPublisherRoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewAMQPPublisher(ch, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"orders_topic/topic"}, ch.declared)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, p.Publish(context.Background(), domain.Event{
		Type:       domain.EventDeleted,
		OrderID:    42,
		Channel:    domain.ChannelForm,
		RequestID:  "req-9",
		OccurredAt: at,
	}))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "orders.deleted", ch.keys[0])
	msg := ch.published[0]
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "req-9", msg.CorrelationId)

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, int64(42), decoded.OrderID)
	assert.Nil(t, decoded.Order)
}

func TestAMQPPublisherWrapsErrors(t *testing.T) {
	ch := &fakeChannel{fail: amqp.ErrClosed}
	p, err := NewAMQPPublisher(ch, nil)
	require.NoError(t, err)

	err = p.Publish(context.Background(), domain.Event{Type: domain.EventUpserted, OrderID: 1})
	assert.True(t, errors.Is(err, amqp.ErrClosed))
}
