package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// WebhookSender posts plain messages to Discord webhooks. It needs no bot
// token; the webhook URL carries its own credential.
type WebhookSender struct {
	session *discordgo.Session
}

func NewWebhookSender() (*WebhookSender, error) {
	s, err := discordgo.New("")
	if err != nil {
		return nil, err
	}
	s.ShouldRetryOnRateLimit = true
	s.MaxRestRetries = 2
	return &WebhookSender{session: s}, nil
}

// Send executes the webhook at webhookURL with content, waiting for Discord to
// accept the message. Mentions are disabled.
func (w *WebhookSender) Send(ctx context.Context, webhookURL, content string) error {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return err
	}
	params := &discordgo.WebhookParams{
		Content:         Truncate(content),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if _, err := w.session.WebhookExecute(id, token, true, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("webhook %s: %w", id, err)
	}
	return nil
}
