package main

import (
	"context"
	"log"

	"planning-poker-be/internal/bootstrap"
	"planning-poker-be/internal/config"
	"planning-poker-be/internal/server"
	"planning-poker-be/internal/tracer"
	"planning-poker-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Feed Relay...")
		if err := container.FeedRelayService.Consume(context.Background()); err != nil {
			log.Printf("Background Feed Relay Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
