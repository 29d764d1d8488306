// Package graphql sends agent-authored GraphQL queries to the configured
// endpoint and turns the responses back into chat events.
package graphql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrEmptyQuery is returned when there is nothing to send.
var ErrEmptyQuery = errors.New("graphql query is empty")

// Client posts queries to a single GraphQL endpoint.
type Client struct {
	http     *resty.Client
	endpoint string
}

// NewClient creates a client for endpoint. An empty apiKey sends no
// Authorization header.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	http := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		http.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &Client{http: http, endpoint: endpoint}
}

// Execute sends query once and returns the raw response body. Non-2xx
// responses are errors; the body is included in the message.
func (c *Client) Execute(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"query": query}).
		Post(c.endpoint)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("query canceled: %w", err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("query timed out: %w", err)
		}
		return "", fmt.Errorf("failed to send query: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("graphql endpoint returned %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return resp.String(), nil
}
