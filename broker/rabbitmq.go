package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"tableorder/services"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the fanout exchange table events are mirrored to.
const Exchange = "table_events"

const (
	queueSize      = 256
	publishTimeout = 5 * time.Second
)

type message struct {
	routingKey string
	body       []byte
}

// Message is the body written to the exchange.
type Message struct {
	Event     string    `json:"event"`
	Channel   string    `json:"channel"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type sendFunc func(ctx context.Context, routingKey string, body []byte) error

// Publisher mirrors hub events to RabbitMQ for consumers outside this
// process. Publishing is fire-and-forget.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue chan message
	send  sendFunc
	now   func() time.Time
}

var _ services.Notifier = (*Publisher)(nil)

func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		Exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(func(ctx context.Context, key string, body []byte) error {
		return ch.PublishWithContext(ctx, Exchange, key, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Transient,
			Timestamp:    time.Now(),
			Body:         body,
		})
	})
	p.conn, p.ch = conn, ch
	return p, nil
}

func newPublisher(send sendFunc) *Publisher {
	return &Publisher{queue: make(chan message, queueSize), send: send, now: time.Now}
}

// Publish queues ev with the channel as routing key.
func (p *Publisher) Publish(channel string, ev services.Event) {
	body, err := json.Marshal(Message{Event: ev.Type, Channel: channel, Data: ev.Payload, Timestamp: p.now()})
	if err != nil {
		slog.Error("broker marshal", "event", ev.Type, "err", err)
		return
	}
	select {
	case p.queue <- message{routingKey: channel, body: body}:
	default:
		slog.Warn("broker queue full, event dropped", "channel", channel, "event", ev.Type)
	}
}

// Run publishes queued events until ctx is done. Failures are logged.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-p.queue:
			pctx, cancel := context.WithTimeout(ctx, publishTimeout)
			if err := p.send(pctx, m.routingKey, m.body); err != nil {
				slog.Error("broker publish", "routingKey", m.routingKey, "err", err)
			}
			cancel()
		}
	}
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
