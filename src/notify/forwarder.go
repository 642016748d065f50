package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ummah-scheduler/scheduler/src/api/types"
	"github.com/ummah-scheduler/scheduler/src/discord"
	"github.com/ummah-scheduler/scheduler/src/logging"
)

// Source lists the current board items. Unlike the dashboard, the forwarder
// must tell a failed fetch apart from an empty board.
type Source interface {
	Fetch(ctx context.Context, limit int) ([]types.Submission, error)
}

// Sender delivers message content to a destination URL.
type Sender interface {
	Send(ctx context.Context, destination, content string) error
}

type Forwarder struct {
	source      Source
	seen        SeenStore
	router      *Router
	sender      Sender
	frontendURL string
	pageSize    int
}

func NewForwarder(source Source, seen SeenStore, router *Router, sender Sender, frontendURL string, pageSize int) *Forwarder {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Forwarder{
		source:      source,
		seen:        seen,
		router:      router,
		sender:      sender,
		frontendURL: frontendURL,
		pageSize:    pageSize,
	}
}

// Report summarizes one forwarder run.
type Report struct {
	Fetched   int
	New       int
	Delivered int
	Failed    int
	Skipped   int

	// Undeliverable counts items for which every routed channel was skipped.
	Undeliverable int
}

// Run forwards every item not yet in the seen set. Each item is recorded as
// seen after its deliveries are attempted, whether or not they succeeded.
func (f *Forwarder) Run(ctx context.Context) (Report, error) {
	var rep Report
	seen, err := f.seen.Load(ctx)
	if err != nil {
		return rep, fmt.Errorf("load seen set: %w", err)
	}
	items, err := f.source.Fetch(ctx, f.pageSize)
	if err != nil {
		return rep, fmt.Errorf("fetch items: %w", err)
	}
	rep.Fetched = len(items)

	for _, item := range items {
		if item.ID == "" || seen[item.ID] {
			continue
		}
		rep.New++
		content := Render(item, f.frontendURL)
		attempted := 0
		for _, ch := range f.router.Destinations(item.Industry) {
			if !validDestination(ch.WebhookURL) {
				log.Printf("notify: warning: channel %s has no usable webhook, skipping item %s", ch.Name, item.ID)
				rep.Skipped++
				continue
			}
			attempted++
			if err := f.sender.Send(ctx, ch.WebhookURL, content); err != nil {
				if logging.IsRateLimit(err) {
					log.Printf("notify: warning: rate limited posting item %s to %s: %v", item.ID, ch.Name, err)
				} else {
					log.Printf("notify: warning: posting item %s to %s failed: %v", item.ID, ch.Name, err)
				}
				rep.Failed++
				continue
			}
			log.Printf("notify: posted item %s to %s", item.ID, ch.Name)
			rep.Delivered++
		}
		if attempted == 0 {
			log.Printf("notify: error: item %s (%q) matched no deliverable channel and will not be retried", item.ID, item.Industry)
			rep.Undeliverable++
		}
		if err := f.seen.Add(ctx, item.ID); err != nil {
			return rep, fmt.Errorf("record item %s as seen: %w", item.ID, err)
		}
		seen[item.ID] = true
	}
	return rep, nil
}

func validDestination(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	_, _, err := discord.ParseWebhookURL(raw)
	return err == nil
}
