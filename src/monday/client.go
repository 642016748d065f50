package monday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ummah-scheduler/scheduler/src/api/types"
	"github.com/ummah-scheduler/scheduler/src/webclient"
)

const (
	DefaultEndpoint = "https://api.monday.com/v2"
	defaultTimeout  = 15 * time.Second
)

var ErrNotConfigured = errors.New("monday: api key or board id not configured")

const itemsQuery = `query ($board: [ID!], $limit: Int!) {
  boards(ids: $board) {
    items_page(limit: $limit) {
      items {
        id
        name
        created_at
        column_values { id text value }
      }
    }
  }
}`

// Client reads intake submissions from a Monday.com board.
type Client struct {
	endpoint   string
	apiKey     string
	boardID    string
	httpClient *http.Client
	attempts   int
	retryDelay time.Duration
}

func NewClient(endpoint, apiKey, boardID string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(apiKey),
		boardID:    strings.TrimSpace(boardID),
		httpClient: webclient.NewDefault(timeout),
		attempts:   2,
		retryDelay: time.Second,
	}
}

type graphQLError struct {
	Message string `json:"message"`
}

type itemsResponse struct {
	Data struct {
		Boards []struct {
			ItemsPage struct {
				Items []Item `json:"items"`
			} `json:"items_page"`
		} `json:"boards"`
	} `json:"data"`
	Errors       []graphQLError `json:"errors"`
	ErrorMessage string         `json:"error_message"`
}

// Items returns the raw board items in board order.
func (c *Client) Items(ctx context.Context, limit int) ([]Item, error) {
	if c.apiKey == "" || c.boardID == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 50
	}

	payload := map[string]any{
		"query": itemsQuery,
		"variables": map[string]any{
			"board": []string{c.boardID},
			"limit": limit,
		},
	}
	headers := map[string]string{"Authorization": c.apiKey, "API-Version": "2024-10"}

	status, body, err := webclient.DoWithRetry(ctx, c.attempts, c.retryDelay, func() (int, []byte, error) {
		return webclient.PostJSON(ctx, c.httpClient, c.endpoint, headers, payload)
	})
	if err != nil {
		return nil, fmt.Errorf("monday request: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("monday request: status %d: %s", status, truncate(string(body), 200))
	}

	var resp itemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("monday decode: %w", err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("monday api error: %s", strings.Join(msgs, "; "))
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("monday api error: %s", resp.ErrorMessage)
	}
	if len(resp.Data.Boards) == 0 {
		return nil, fmt.Errorf("monday: board %s not found", c.boardID)
	}
	return resp.Data.Boards[0].ItemsPage.Items, nil
}

// Fetch returns normalized submissions in board order.
func (c *Client) Fetch(ctx context.Context, limit int) ([]types.Submission, error) {
	items, err := c.Items(ctx, limit)
	if err != nil {
		return nil, err
	}
	subs := make([]types.Submission, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		subs = append(subs, ParseItem(it))
	}
	return subs, nil
}

// Latest is Fetch for callers that must keep serving: any failure is logged
// and reported as an empty list. An empty result means unknown, not "no
// submissions".
func (c *Client) Latest(ctx context.Context, limit int) []types.Submission {
	subs, err := c.Fetch(ctx, limit)
	if err != nil {
		log.Printf("monday: fetch failed, serving empty list: %v", err)
		return []types.Submission{}
	}
	return subs
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
