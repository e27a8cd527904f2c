package notify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPBackend publishes registration events to a queue instead of
// mailing the operator, for deployments without SES access.
type AMQPBackend struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewAMQPBackend connects to the broker and declares the target queue.
func NewAMQPBackend(url, queue string) (*AMQPBackend, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("amqp url is required")
	}
	if strings.TrimSpace(queue) == "" {
		return nil, errors.New("amqp queue is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &AMQPBackend{
		conn:    conn,
		channel: ch,
		queue:   queue,
	}, nil
}

// SendRegistration publishes the registration event as JSON.
func (b *AMQPBackend) SendRegistration(ctx context.Context, reg Registration) error {
	body, err := json.Marshal(reg)
	if err != nil {
		return err
	}

	return b.channel.PublishWithContext(ctx, "", b.queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   newMessageID(),
		Body:        body,
	})
}

// Close closes the underlying channel and connection.
func (b *AMQPBackend) Close() error {
	if b.channel != nil {
		_ = b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}

func newMessageID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(buf[:])
}
