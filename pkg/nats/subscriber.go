package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"planning-poker-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// ChangeHandler processes one row-change notification.
type ChangeHandler func(ctx context.Context, change events.RowChange) error

// Subscriber listens for row-change notifications from NATS.
type Subscriber struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewSubscriber creates a new NATS subscriber.
func NewSubscriber(url string) (*Subscriber, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe registers a handler for a subject pattern on the FEED stream.
// Durable consumers survive reconnects; the handler Naks on failure so the
// notification is redelivered.
func (s *Subscriber) Subscribe(subject string, durableName string, handler ChangeHandler) (func(), error) {
	ctx := context.Background()

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, "FEED", jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		var change events.RowChange
		if err := json.Unmarshal(msg.Data(), &change); err != nil {
			log.Printf("Error unmarshalling change data: %v", err)
			msg.Ack() // malformed, retrying won't help
			return
		}

		if err := handler(context.Background(), change); err != nil {
			log.Printf("Handler failed for change %s: %v", msg.Subject(), err)
			msg.Nak() // Retry
			return
		}

		msg.Ack()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	log.Printf("Subscribed to %s with durable %s", subject, durableName)
	return cc.Stop, nil
}

// Close closes the connection.
func (s *Subscriber) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
