package service

import (
	"context"
	"encoding/json"

	"planning-poker-be/internal/pkg/logger"
	"planning-poker-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IFeedPublisherService is the in-process edge of the change feed. Every
// committed mutation is announced here; the relay fans it out to websocket
// clients and to NATS. Publishing is fire-and-forget: the row is already
// durable, a dropped notification self-heals on the next one.
type IFeedPublisherService interface {
	PublishChange(ctx context.Context, change events.RowChange)
}

type feedPublisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
	logger    logger.ILogger
}

func NewFeedPublisherService(topicName string, pubSub *gochannel.GoChannel, log logger.ILogger) IFeedPublisherService {
	return &feedPublisherService{
		topicName: topicName,
		pubSub:    pubSub,
		logger:    log,
	}
}

func (s *feedPublisherService) PublishChange(ctx context.Context, change events.RowChange) {
	payload, err := json.Marshal(change)
	if err != nil {
		s.logger.Error("Feed", "Failed to marshal change", map[string]interface{}{
			"error": err.Error(),
			"table": string(change.Table),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("Feed", "Failed to publish change", map[string]interface{}{
			"error":      err.Error(),
			"table":      string(change.Table),
			"session_id": change.SessionId.String(),
		})
	}
}
