// Package inference calls the remote chat endpoint a widget is configured
// with.
package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/luckylabs-yuno/yuno/internal/model"
)

// Client posts the conversation to an inference endpoint.
type Client struct {
	endpoint string
	http     *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the transport timeout. Callers usually bound requests
// with a context instead.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithRestyClient replaces the underlying HTTP client.
func WithRestyClient(r *resty.Client) Option {
	return func(c *Client) { c.http = r }
}

// New creates a client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http: resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Ask sends req and decodes the reply. Any JSON body is decoded whatever the
// status, so an error payload without content becomes an empty reply. A
// status error is returned only when the body is not JSON.
func (c *Client) Ask(ctx context.Context, req *model.AskRequest) (*model.AskResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call inference endpoint: %w", err)
	}

	var out model.AskResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		if resp.IsError() {
			return nil, fmt.Errorf("inference endpoint returned %d", resp.StatusCode())
		}
		return nil, fmt.Errorf("failed to decode inference reply: %w", err)
	}
	return &out, nil
}
