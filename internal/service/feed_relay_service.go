package service

import (
	"context"
	"encoding/json"

	"planning-poker-be/internal/pkg/logger"
	"planning-poker-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// FeedBroadcaster delivers a change to locally connected websocket clients.
// Implemented by the websocket hub.
type FeedBroadcaster interface {
	BroadcastChange(sessionId uuid.UUID, change events.RowChange)
}

// FeedStreamPublisher pushes a change onto the durable cross-instance
// stream. Implemented by the NATS publisher; nil when NATS is down.
type FeedStreamPublisher interface {
	Publish(ctx context.Context, change events.RowChange) error
}

type IFeedRelayService interface {
	Consume(ctx context.Context) error
}

// feedRelayService drains the in-process change topic and fans each change
// out twice: to the websocket hub for this instance's clients, and to NATS
// for everything else. Either leg may fail independently; the feed is
// at-least-once and clients refetch, so failures are logged and skipped.
type feedRelayService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       FeedBroadcaster
	stream    FeedStreamPublisher
	logger    logger.ILogger
}

func NewFeedRelayService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub FeedBroadcaster,
	stream FeedStreamPublisher,
	log logger.ILogger,
) IFeedRelayService {
	return &feedRelayService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		stream:    stream,
		logger:    log,
	}
}

func (s *feedRelayService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *feedRelayService) processMessage(ctx context.Context, msg *message.Message) {
	var change events.RowChange
	if err := json.Unmarshal(msg.Payload, &change); err != nil {
		s.logger.Error("FeedRelay", "Failed to unmarshal change", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, retrying won't help
		return
	}

	if s.hub != nil {
		s.hub.BroadcastChange(change.SessionId, change)
	}

	if s.stream != nil {
		if err := s.stream.Publish(ctx, change); err != nil {
			s.logger.Warn("FeedRelay", "Failed to publish change to stream", map[string]interface{}{
				"error":      err.Error(),
				"session_id": change.SessionId.String(),
				"table":      string(change.Table),
			})
		}
	}

	msg.Ack()
}
