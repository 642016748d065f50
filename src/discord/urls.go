package discord

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s\[\]()<>]+`)

// WrapURLsNoEmbed wraps bare URLs in angle brackets so Discord does not embed
// them. Trailing punctuation stays outside the brackets.
func WrapURLsNoEmbed(text string) string {
	return urlPattern.ReplaceAllStringFunc(text, func(u string) string {
		trimmed := strings.TrimRight(u, ".,;:!?")
		return "<" + trimmed + ">" + u[len(trimmed):]
	})
}

var errBadWebhook = errors.New("not a discord webhook url")

// ParseWebhookURL extracts the id and token from a webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errBadWebhook, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", "", errBadWebhook
	}
	host := strings.ToLower(u.Hostname())
	if host != "discord.com" && !strings.HasSuffix(host, ".discord.com") &&
		host != "discordapp.com" && !strings.HasSuffix(host, ".discordapp.com") {
		return "", "", errBadWebhook
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" {
			id, token = parts[i+1], parts[i+2]
			break
		}
	}
	if id == "" || token == "" || !isSnowflake(id) {
		return "", "", errBadWebhook
	}
	return id, token, nil
}

func isSnowflake(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
