package notify

import (
	"strings"

	"github.com/ummah-scheduler/scheduler/src/api/config"
)

// Channel is a named Discord destination.
type Channel struct {
	Name       string
	WebhookURL string
}

// Route sends items whose category contains Keyword to Channel.
type Route struct {
	Keyword string
	Channel Channel
}

// Router picks destination channels for a category field.
type Router struct {
	routes   []Route
	fallback Channel
}

func NewRouter(routes []Route, fallback Channel) *Router {
	return &Router{routes: routes, fallback: fallback}
}

// RouterFromConfig builds the fixed keyword table used for the career-prep
// board.
func RouterFromConfig(w config.Webhooks) *Router {
	return NewRouter([]Route{
		{Keyword: "business", Channel: Channel{Name: "business", WebhookURL: w.Business}},
		{Keyword: "education", Channel: Channel{Name: "education", WebhookURL: w.Education}},
		{Keyword: "engineering", Channel: Channel{Name: "engineering", WebhookURL: w.Engineering}},
		{Keyword: "finance", Channel: Channel{Name: "finance", WebhookURL: w.Finance}},
		{Keyword: "information technology", Channel: Channel{Name: "it", WebhookURL: w.IT}},
		{Keyword: "law", Channel: Channel{Name: "law", WebhookURL: w.Law}},
	}, Channel{Name: "general", WebhookURL: w.General})
}

// Destinations returns every channel whose keyword occurs in category, in
// table order and each at most once. When nothing matches the fallback
// channel is returned alone.
func (r *Router) Destinations(category string) []Channel {
	lower := strings.ToLower(category)
	var out []Channel
	used := make(map[string]bool)
	for _, route := range r.routes {
		if route.Keyword == "" || !strings.Contains(lower, strings.ToLower(route.Keyword)) {
			continue
		}
		if used[route.Channel.Name] {
			continue
		}
		used[route.Channel.Name] = true
		out = append(out, route.Channel)
	}
	if len(out) == 0 {
		return []Channel{r.fallback}
	}
	return out
}
