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

// Publisher pushes row-change notifications onto the NATS feed stream so
// every backend instance sees every mutation, not just its own.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(url string) (*Publisher, error) {
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

	// Ensure the "FEED" stream exists
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     "FEED",
		Subjects: []string{"feed.>"},
		Storage:  jetstream.FileStorage,
		// LimitsPolicy with a short MaxAge: the feed only needs to bridge
		// the gap until the next full refetch, not replay history.
		Retention: jetstream.LimitsPolicy,
		MaxAge:    time.Hour,
	})
	if err != nil {
		log.Printf("Warn: Failed to ensure stream 'FEED': %v", err)
		// Don't fail hard here, maybe it already exists or NATS isn't ready
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Publish sends a row-change notification to NATS.
func (p *Publisher) Publish(ctx context.Context, change events.RowChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal row change: %w", err)
	}

	_, err = p.js.Publish(ctx, change.Subject(), data)
	if err != nil {
		return fmt.Errorf("failed to publish change to subject %s: %w", change.Subject(), err)
	}

	return nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
