package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ummah-scheduler/scheduler/src/api/config"
	"github.com/ummah-scheduler/scheduler/src/api/types"
)

type fakeSource struct {
	items []types.Submission
	err   error
}

func (f *fakeSource) Fetch(context.Context, int) ([]types.Submission, error) {
	return f.items, f.err
}

type sent struct {
	destination string
	content     string
}

type fakeSender struct {
	sent []sent
	fail map[string]bool
}

func (f *fakeSender) Send(_ context.Context, destination, content string) error {
	if f.fail[destination] {
		return errors.New("boom")
	}
	f.sent = append(f.sent, sent{destination, content})
	return nil
}

func hook(name string) string {
	return "https://discord.com/api/webhooks/100/" + name
}

func testWebhooks() config.Webhooks {
	return config.Webhooks{
		General:     hook("general"),
		Business:    hook("business"),
		Education:   hook("education"),
		Engineering: hook("engineering"),
		Finance:     hook("finance"),
		IT:          hook("it"),
		Law:         hook("law"),
	}
}

func destinations(s *fakeSender) []string {
	var out []string
	for _, m := range s.sent {
		out = append(out, m.destination[strings.LastIndex(m.destination, "/")+1:])
	}
	return out
}

func TestForwarderRoutesByIndustry(t *testing.T) {
	src := &fakeSource{items: []types.Submission{
		{ID: "1", Name: "Amina", Industry: "Business, Law"},
		{ID: "2", Name: "Bilal", Industry: "Engineering"},
		{ID: "3", Name: "Sara", Industry: "N/A"},
	}}
	sender := &fakeSender{}
	seen := NewFileSeenStore(filepath.Join(t.TempDir(), "seen.json"))
	f := NewForwarder(src, seen, RouterFromConfig(testWebhooks()), sender, "https://app.example.org", 100)

	rep, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := strings.Join(destinations(sender), ",")
	if got != "business,law,engineering,general" {
		t.Fatalf("unexpected routing %s", got)
	}
	if rep.New != 3 || rep.Delivered != 4 {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestForwarderSecondRunSendsNothing(t *testing.T) {
	src := &fakeSource{items: []types.Submission{{ID: "1", Industry: "Finance"}, {ID: "2", Industry: "Education"}}}
	path := filepath.Join(t.TempDir(), "seen.json")
	sender := &fakeSender{}
	router := RouterFromConfig(testWebhooks())

	if _, err := NewForwarder(src, NewFileSeenStore(path), router, sender, "", 0).Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(sender.sent))
	}

	rep, err := NewForwarder(src, NewFileSeenStore(path), router, sender, "", 0).Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(sender.sent) != 2 || rep.New != 0 {
		t.Fatalf("second run sent messages: %d total, report %+v", len(sender.sent), rep)
	}
}

func TestForwarderMarksSeenEvenWhenDeliveryFails(t *testing.T) {
	src := &fakeSource{items: []types.Submission{{ID: "1", Industry: "Law"}}}
	sender := &fakeSender{fail: map[string]bool{hook("law"): true}}
	seen := NewFileSeenStore(filepath.Join(t.TempDir(), "seen.json"))

	rep, err := NewForwarder(src, seen, RouterFromConfig(testWebhooks()), sender, "", 0).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Failed != 1 {
		t.Fatalf("expected one failure, got %+v", rep)
	}
	ids, _ := seen.Load(context.Background())
	if !ids["1"] {
		t.Fatalf("item should be recorded as seen")
	}
}

func TestForwarderSkipsPlaceholderWebhooks(t *testing.T) {
	hooks := testWebhooks()
	hooks.Business = "your_business_webhook_here"
	src := &fakeSource{items: []types.Submission{{ID: "1", Industry: "Business and Finance"}}}
	sender := &fakeSender{}
	seen := NewFileSeenStore(filepath.Join(t.TempDir(), "seen.json"))

	rep, err := NewForwarder(src, seen, RouterFromConfig(hooks), sender, "", 0).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Join(destinations(sender), ","); got != "finance" {
		t.Fatalf("unexpected routing %s", got)
	}
	if rep.Skipped != 1 {
		t.Fatalf("expected one skipped channel, got %+v", rep)
	}
}

func TestForwarderCountsItemsWithNoDeliverableChannel(t *testing.T) {
	hooks := testWebhooks()
	hooks.Law = ""
	src := &fakeSource{items: []types.Submission{
		{ID: "1", Industry: "Law"},
		{ID: "2", Industry: "Business and Finance"},
	}}
	sender := &fakeSender{}
	seen := NewFileSeenStore(filepath.Join(t.TempDir(), "seen.json"))

	rep, err := NewForwarder(src, seen, RouterFromConfig(hooks), sender, "", 0).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Join(destinations(sender), ","); got != "business,finance" {
		t.Fatalf("unexpected routing %s", got)
	}
	if rep.Undeliverable != 1 || rep.Skipped != 1 {
		t.Fatalf("expected one undeliverable item, got %+v", rep)
	}
	ids, _ := seen.Load(context.Background())
	if !ids["1"] || !ids["2"] {
		t.Fatalf("both items should be recorded as seen, got %v", ids)
	}
}

func TestForwarderFetchErrorLeavesSeenUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	src := &fakeSource{err: errors.New("board unavailable")}
	_, err := NewForwarder(src, NewFileSeenStore(path), RouterFromConfig(testWebhooks()), &fakeSender{}, "", 0).Run(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("seen file should not be written")
	}
}

func TestRouterEachChannelOnce(t *testing.T) {
	r := NewRouter([]Route{
		{Keyword: "law", Channel: Channel{Name: "law"}},
		{Keyword: "lawyer", Channel: Channel{Name: "law"}},
	}, Channel{Name: "general"})
	got := r.Destinations("Lawyer")
	if len(got) != 1 || got[0].Name != "law" {
		t.Fatalf("unexpected destinations %+v", got)
	}
	if d := r.Destinations(""); len(d) != 1 || d[0].Name != "general" {
		t.Fatalf("empty category should fall back, got %+v", d)
	}
}

func TestRenderStripsMarkupAndWrapsLinks(t *testing.T) {
	msg := Render(types.Submission{
		Name:      "<b>Amina</b>",
		OtherInfo: "portfolio at https://amina.dev & more",
	}, "https://app.example.org")

	for _, want := range []string{
		"**New Career-Prep Submission**",
		"**Name:** Amina\n",
		"**Email:** N/A\n",
		"<https://amina.dev> & more",
		"[View in Scheduler Tool](<https://app.example.org>)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}
