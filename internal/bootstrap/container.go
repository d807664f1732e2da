package bootstrap

import (
	"context"
	"log"

	"planning-poker-be/internal/config"
	"planning-poker-be/internal/controller"
	"planning-poker-be/internal/pkg/logger"
	"planning-poker-be/internal/repository/memory"
	"planning-poker-be/internal/repository/unitofwork"
	"planning-poker-be/internal/service"
	"planning-poker-be/internal/websocket"

	pktNats "planning-poker-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController     controller.ISessionController
	ParticipantController controller.IParticipantController
	StoryController       controller.IStoryController

	// Background Services (Exposed for main.go to run)
	FeedRelayService service.IFeedRelayService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/feed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	feedPublisher := service.NewFeedPublisherService(cfg.Feed.Topic, pubSub, sysLogger)

	// A typed nil must not reach the interface field.
	var stream service.FeedStreamPublisher
	if natsPub != nil {
		stream = natsPub
	}
	feedRelay := service.NewFeedRelayService(pubSub, cfg.Feed.Topic, wsHub, stream, sysLogger)

	roomCodes := memory.NewRoomCodeCache()

	sessionService := service.NewSessionService(uowFactory, roomCodes, feedPublisher)
	participantService := service.NewParticipantService(uowFactory, feedPublisher)
	storyService := service.NewStoryService(uowFactory, feedPublisher)

	// 4. Controllers
	return &Container{
		SessionController:     controller.NewSessionController(sessionService, cfg.App.ClientURL),
		ParticipantController: controller.NewParticipantController(participantService),
		StoryController:       controller.NewStoryController(storyService),

		FeedRelayService: feedRelay,
		WebSocketHub:     wsHub,
	}
}
