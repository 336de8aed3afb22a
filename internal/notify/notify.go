// Package notify announces placed orders to the back office.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"pharmacie/m/domain"
)

const EventOrderPlaced = "order.placed"

type Publisher interface {
	OrderPlaced(ctx context.Context, order domain.Order) error
	Close() error
}

// Event is the message body published for every order event.
type Event struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Region     string    `json:"region"`
	Total      float64   `json:"total"`
	Items      int       `json:"items"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, order domain.Order) Event {
	items := 0
	for _, item := range order.Items {
		items += item.Quantity
	}
	return Event{
		Type:       eventType,
		OrderID:    order.ID,
		FullName:   order.FullName,
		Phone:      order.Phone,
		Region:     order.Region,
		Total:      order.Total,
		Items:      items,
		OccurredAt: order.CreatedAt,
	}
}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) OrderPlaced(context.Context, domain.Order) error { return nil }
func (Noop) Close() error                                     { return nil }

// RabbitMQ publishes events to a durable fanout exchange.
type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewRabbitMQ(url, exchange string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	log.Info().Str("exchange", exchange).Msg("order notifications enabled")
	return &RabbitMQ{conn: conn, channel: ch, exchange: exchange}, nil
}

func (r *RabbitMQ) OrderPlaced(ctx context.Context, order domain.Order) error {
	body, err := json.Marshal(NewEvent(EventOrderPlaced, order))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		ContentType:  "application/json",
		Type:         EventOrderPlaced,
		MessageId:    order.ID,
		Body:         body,
	}
	if err := r.channel.PublishWithContext(ctx,
		r.exchange,
		EventOrderPlaced,
		false, // mandatory
		false, // immediate
		msg,
	); err != nil {
		return fmt.Errorf("publish %s: %w", EventOrderPlaced, err)
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		_ = r.conn.Close()
		return err
	}
	return r.conn.Close()
}

// New returns a RabbitMQ publisher when url is set and a Noop otherwise.
func New(url, exchange string) (Publisher, error) {
	if url == "" {
		return Noop{}, nil
	}
	return NewRabbitMQ(url, exchange)
}
