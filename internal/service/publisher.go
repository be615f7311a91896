// Package service holds the side-effect adapters around the booking
// engine: broker publishing, the fire-and-forget room status updater and
// its reconciler, the Redis room lock, confirmation mail, photo storage
// and the job scheduler.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hotelhub-pms/internal/queue"
)

// Publisher sends events to RabbitMQ.  Each publish opens its own
// connection, so a broker outage never leaves a broken channel behind.
// Errors are logged and returned; callers on the request path ignore them.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	return p.publish(ctx, queue.BookingConfirmedQueue, ev)
}

func (p *Publisher) PublishRoomStatus(ctx context.Context, ev queue.RoomStatusEvent) error {
	return p.publish(ctx, queue.RoomStatusRetryQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, name string, v any) error {
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

	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare %s failed: %v", name, err)
		return err
	}

	body, err := json.Marshal(v)
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
	if err := ch.PublishWithContext(ctx, "", name, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish to %s failed: %v", name, err)
		return err
	}
	return nil
}
