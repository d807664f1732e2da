// Command observe attaches a read-only sync client to a running session and
// prints the reconciled state as changes arrive. Useful for watching a
// session from a terminal while poking the REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"planning-poker-be/internal/config"
	"planning-poker-be/internal/pkg/logger"
	"planning-poker-be/internal/repository/unitofwork"
	"planning-poker-be/internal/syncclient"
	"planning-poker-be/pkg/database"
	pktNats "planning-poker-be/pkg/nats"

	"github.com/google/uuid"
)

func main() {
	sessionArg := flag.String("session", "", "session id to observe (required)")
	participantArg := flag.String("participant", "", "participant id to heartbeat as (optional)")
	flag.Parse()

	sessionId, err := uuid.Parse(*sessionArg)
	if err != nil {
		log.Fatal("Error: -session must be a valid session id")
	}

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatal("Error: Failed to connect to NATS:", err)
	}

	store := syncclient.NewRepositoryStore(unitofwork.NewRepositoryFactory(db))
	feed := syncclient.NewNatsFeed(natsSub, "observe-"+sessionId.String())

	opts := []syncclient.Option{}
	if *participantArg != "" {
		participantId, err := uuid.Parse(*participantArg)
		if err != nil {
			log.Fatal("Error: -participant must be a valid participant id")
		}
		opts = append(opts, syncclient.WithParticipant(participantId))
	}

	client := syncclient.NewClient(store, feed, logger.NewIsolatedLogger("logs/observe.log"), opts...)
	if err := client.Attach(context.Background(), sessionId); err != nil {
		log.Fatal("Error: Attach failed:", err)
	}
	defer client.Detach()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			render(client.Snapshot())
		}
	}
}

func render(snap syncclient.Snapshot) {
	if snap.SessionDeleted {
		fmt.Println("session deleted")
		return
	}
	if snap.Session == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", snap.Session.RoomCode, snap.Session.Name)
	if story := snap.CurrentStory(); story != nil {
		fmt.Fprintf(&b, " | story: %s", story.Title)
	}
	fmt.Fprintf(&b, " | revealed: %v", snap.Session.VotesRevealed)
	for _, p := range snap.Participants {
		vote := "-"
		if v := snap.VisibleVote(p); v != nil {
			vote = *v
		} else if p.HasVoted {
			vote = "✓"
		}
		fmt.Fprintf(&b, "\n  %-20s %s", p.Name, vote)
	}
	if summary := snap.Summary(); summary != nil && summary.Average != nil {
		fmt.Fprintf(&b, "\n  average: %.1f", *summary.Average)
	}
	fmt.Println(b.String())
}
