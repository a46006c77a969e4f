package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
	// MaxBodySize caps the bytes read from a response. 0 keeps colly's
	// 10MB default, a negative value reads the whole body.
	MaxBodySize int
}

// DefaultStaticConfig returns sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

const defaultUserAgent = "dress2mydoor-sync/1.0 (+https://dress2mydoor.com)"

// StaticFetcher fetches plain HTML with Colly. Pages that build the gallery
// with client-side script are not supported.
type StaticFetcher struct {
	config StaticConfig
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultStaticConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultStaticConfig().Timeout
	}
	return &StaticFetcher{config: cfg}
}

// Fetch retrieves a page. Non-2xx responses are errors.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string) (Page, error) {
	page := Page{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}
	if err := ctx.Err(); err != nil {
		return page, err
	}

	opts := []colly.CollectorOption{
		colly.UserAgent(f.config.UserAgent),
		colly.AllowURLRevisit(),
	}
	switch {
	case f.config.MaxBodySize > 0:
		opts = append(opts, colly.MaxBodySize(f.config.MaxBodySize))
	case f.config.MaxBodySize < 0:
		opts = append(opts, colly.MaxBodySize(0))
	}
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(f.config.Timeout)

	if len(f.config.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range f.config.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		page.StatusCode = r.StatusCode
		page.ContentType = r.Headers.Get("Content-Type")
		page.HTML = string(r.Body)
		logger.Debug("page fetched",
			"url", targetURL,
			"status", r.StatusCode,
			"content_type", page.ContentType,
			"body_size", len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			page.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch %s: %w", targetURL, err)
	})

	if err := c.Visit(targetURL); err != nil {
		return page, fmt.Errorf("failed to visit %s: %w", targetURL, err)
	}
	if fetchErr != nil {
		return page, fetchErr
	}

	if page.ContentType != "" && !strings.Contains(strings.ToLower(page.ContentType), "html") {
		return page, fmt.Errorf("%s: %w (%s)", targetURL, ErrNotHTML, page.ContentType)
	}

	return page, nil
}
