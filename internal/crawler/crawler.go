// Package crawler walks a paginated remote gallery and extracts the dresses
// on every page.
package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
	"github.com/dress2mydoor/dress2mydoor/pkg/fetcher"
	"github.com/dress2mydoor/dress2mydoor/pkg/gallery"
)

// Config holds crawler configuration.
type Config struct {
	NextSelector string        // CSS selector for the "next page" link; empty fetches one page
	MaxPages     int           // Max pages to fetch (0 = unlimited)
	Delay        time.Duration // Delay between page fetches
}

// DefaultConfig returns sensible crawler defaults.
func DefaultConfig() Config {
	return Config{
		MaxPages: 10,
		Delay:    200 * time.Millisecond,
	}
}

// PageResult is the extraction of a single page.
type PageResult struct {
	URL     string
	Records []dress.Record
}

// Crawler follows pagination links from a start page.
type Crawler struct {
	fetcher fetcher.Fetcher
	config  Config
}

// New creates a new Crawler.
func New(f fetcher.Fetcher, cfg Config) *Crawler {
	return &Crawler{fetcher: f, config: cfg}
}

// Crawl fetches start and each following page in order. Ids restart at 1
// on every page, as they do for local files. A fetch error on the start page
// is returned; later failures end the crawl with what was gathered.
func (c *Crawler) Crawl(ctx context.Context, start string) ([]PageResult, error) {
	var results []PageResult
	visited := make(map[string]bool)

	current := start
	for current != "" {
		if c.config.MaxPages > 0 && len(results) >= c.config.MaxPages {
			logger.Debug("crawler reached max pages", "max_pages", c.config.MaxPages)
			break
		}
		if visited[current] {
			logger.Debug("crawler skipping revisited page", "url", current)
			break
		}
		visited[current] = true

		if len(results) > 0 && c.config.Delay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(c.config.Delay):
			}
		}

		page, err := c.fetcher.Fetch(ctx, current)
		if err != nil {
			if len(results) == 0 {
				return nil, fmt.Errorf("fetch %s: %w", current, err)
			}
			logger.Warn("fetch failed, stopping pagination", "url", current, "error", err)
			break
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
		if err != nil {
			return results, fmt.Errorf("parse %s: %w", current, err)
		}

		records := gallery.ExtractDocument(doc)
		logger.Info("extracted", "url", current, "dresses", len(records))
		results = append(results, PageResult{URL: current, Records: records})

		next, ok := nextPage(doc, c.config.NextSelector, current)
		if !ok {
			break
		}
		logger.Debug("crawler found next page", "next_url", next)
		current = next
	}

	return results, nil
}

// Records concatenates the records of every page.
func Records(results []PageResult) []dress.Record {
	out := make([]dress.Record, 0)
	for _, r := range results {
		out = append(out, r.Records...)
	}
	return out
}
