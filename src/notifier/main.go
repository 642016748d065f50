package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ummah-scheduler/scheduler/src/api/config"
	"github.com/ummah-scheduler/scheduler/src/api/data"
	"github.com/ummah-scheduler/scheduler/src/discord"
	"github.com/ummah-scheduler/scheduler/src/monday"
	"github.com/ummah-scheduler/scheduler/src/notify"
)

// One forwarder pass per invocation, meant for cron or a CI schedule.
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	var seen notify.SeenStore
	if rdb := data.MustRedis(cfg.RedisURL); rdb != nil {
		defer rdb.Close()
		seen = notify.NewRedisSeenStore(rdb)
		log.Printf("notifier: seen set in redis")
	} else {
		seen = notify.NewFileSeenStore(cfg.SeenFile)
		log.Printf("notifier: seen set in %s", cfg.SeenFile)
	}

	sender, err := discord.NewWebhookSender()
	if err != nil {
		log.Fatalf("notifier: discord: %v", err)
	}
	board := monday.NewClient(cfg.MondayAPIURL, cfg.MondayAPIKey, cfg.MondayBoardID, cfg.MondayTimeout)

	f := notify.NewForwarder(board, seen, notify.RouterFromConfig(cfg.Webhooks), sender, cfg.FrontendURL, cfg.ForwarderPageSize)
	rep, err := f.Run(ctx)
	if err != nil {
		log.Fatalf("notifier: %v", err)
	}
	log.Printf("notifier: fetched=%d new=%d delivered=%d failed=%d skipped=%d undeliverable=%d",
		rep.Fetched, rep.New, rep.Delivered, rep.Failed, rep.Skipped, rep.Undeliverable)
}
