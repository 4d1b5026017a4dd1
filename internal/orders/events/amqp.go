package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/smallbiznis/telco360/internal/orders/domain"
	"go.uber.org/zap"
)

const (
	Exchange       = "orders_topic"
	publishTimeout = 5 * time.Second
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends order events to a durable topic exchange with routing
// keys orders.upserted and orders.deleted.
type AMQPPublisher struct {
	conn *amqp.Connection
	ch   Channel
	log  *zap.Logger
	mu   sync.Mutex
}

// Dial connects to url and declares the exchange.
func Dial(url string, log *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	p, err := NewAMQPPublisher(ch, log)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func NewAMQPPublisher(ch Channel, log *zap.Logger) (*AMQPPublisher, error) {
	if ch == nil {
		return nil, errors.New("amqp channel is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	return &AMQPPublisher{ch: ch, log: log.Named("orders.events")}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		Body:          body,
		MessageId:     event.Type + ":" + strconv.FormatInt(event.OrderID, 10) + ":" + strconv.FormatInt(event.OccurredAt.UnixNano(), 10),
		CorrelationId: event.RequestID,
		Timestamp:     event.OccurredAt,
		Headers: amqp.Table{
			"x-source": "telco360-orders",
		},
	}

	// amqp channels are not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, Exchange, event.Type, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	p.log.Debug("order event published", zap.String("type", event.Type), zap.Int64("order_id", event.OrderID))
	return nil
}

func (p *AMQPPublisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
