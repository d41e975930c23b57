package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends notification events to RabbitMQ. It dials per publish so
// a dropped broker connection never leaves the request path holding a dead
// channel; errors are logged and returned for callers that want to ignore
// them.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// PasswordResetCode queues a reset-code mail for the address. Messages are
// persistent so they survive a broker restart.
func (p *Publisher) PasswordResetCode(ctx context.Context, email, code string) error {
	ev := PasswordResetMail{
		Email:       email,
		Code:        code,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return p.publish(ctx, mailQueueName, ev)
}

func (p *Publisher) publish(ctx context.Context, queue string, event any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
