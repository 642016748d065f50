package discord

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrapURLsNoEmbed(t *testing.T) {
	cases := map[string]string{
		"see https://example.org/a.":             "see <https://example.org/a>.",
		"[View](https://example.org/x?y=1)":      "[View](<https://example.org/x?y=1>)",
		"no links here":                          "no links here",
		"two http://a.io and https://b.io/c, ok": "two <http://a.io> and <https://b.io/c>, ok",
	}
	for in, want := range cases {
		if got := WrapURLsNoEmbed(in); got != want {
			t.Errorf("WrapURLsNoEmbed(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseWebhookURL(t *testing.T) {
	id, token, err := ParseWebhookURL("https://discord.com/api/webhooks/123456789/abc-DEF_ghi")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != "123456789" || token != "abc-DEF_ghi" {
		t.Fatalf("unexpected id/token %q %q", id, token)
	}

	bad := []string{
		"",
		"your_webhook_url_here",
		"https://example.com/api/webhooks/1/x",
		"https://discord.com/api/webhooks/notanid/x",
		"https://discord.com/api/webhooks/123",
	}
	for _, raw := range bad {
		if _, _, err := ParseWebhookURL(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestTruncate(t *testing.T) {
	short := "hello"
	if Truncate(short) != short {
		t.Fatalf("short content changed")
	}
	long := strings.Repeat("é", MaxMessageLen+50)
	got := Truncate(long)
	if n := utf8.RuneCountInString(got); n != MaxMessageLen {
		t.Fatalf("expected %d runes, got %d", MaxMessageLen, n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("missing ellipsis")
	}
}
