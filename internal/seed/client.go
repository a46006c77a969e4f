package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
)

// DefaultAPIBase is used when neither --url nor API_BASE is set.
const DefaultAPIBase = "http://localhost:5000/api"

// Payload is the seed request body.
type Payload struct {
	Dresses []json.RawMessage `json:"dresses"`
}

// EncodeRecords turns records into payload elements.
func EncodeRecords(records []dress.Record) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to encode dress %d: %w", r.ID, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

// Result is the seed endpoint's answer. Non-2xx statuses are results, not
// errors.
type Result struct {
	StatusCode int
	Body       string
}

// OK reports whether the endpoint accepted the seed.
func (r Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client posts record sets to the seed endpoint.
type Client struct {
	http  *resty.Client
	url   string
	token string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout bounds each delivery attempt.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithRestyClient replaces the underlying HTTP client.
func WithRestyClient(rc *resty.Client) ClientOption {
	return func(c *Client) {
		c.http = rc
	}
}

// NewClient creates a client for {apiBase}/dresses/seed.
func NewClient(apiBase, token string, opts ...ClientOption) *Client {
	rc := resty.New()
	rc.SetHeader("User-Agent", "dress2mydoor-sync/1.0")
	rc.SetTimeout(30 * time.Second)

	c := &Client{
		http:  rc,
		url:   SeedURL(apiBase),
		token: token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SeedURL joins apiBase and the seed path, dropping trailing slashes.
func SeedURL(apiBase string) string {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return strings.TrimRight(apiBase, "/") + "/dresses/seed"
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

// Seed sends one request carrying every dress. Only transport failures are
// returned as errors.
func (c *Client) Seed(ctx context.Context, dresses []json.RawMessage) (Result, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetHeader("Content-Type", "application/json").
		SetBody(Payload{Dresses: dresses}).
		Post(c.url)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	return Result{StatusCode: res.StatusCode(), Body: res.String()}, nil
}
