package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPNotifier publishes notification requests to a topic exchange consumed
// by the external delivery service. Delivery is best-effort by contract; the
// caller decides what to do with a returned error (the core logs and drops).
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPNotifier connects to the broker and declares the topic exchange.
func NewAMQPNotifier(amqpURL string, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &AMQPNotifier{conn: conn, channel: channel, exchange: exchange}, nil
}

// Notify publishes one notification, routed by its category.
func (n *AMQPNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	routingKey := "notification." + string(notification.Category)
	err = n.channel.PublishWithContext(ctx,
		n.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Close gracefully closes the channel and connection.
func (n *AMQPNotifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
