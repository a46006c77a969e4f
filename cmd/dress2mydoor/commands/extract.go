package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dress2mydoor/dress2mydoor/internal/crawler"
	"github.com/dress2mydoor/dress2mydoor/internal/logger"
	"github.com/dress2mydoor/dress2mydoor/internal/output"
	"github.com/dress2mydoor/dress2mydoor/internal/seed"
	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
	"github.com/dress2mydoor/dress2mydoor/pkg/fetcher"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the dresses a sync would send",
	Long: `Extract runs the gallery extractor without contacting the API and prints
the records. Input is resolved like sync (--file, --files, --dir), or a
remote gallery can be fetched with --page, following --next links.

Examples:
  dress2mydoor extract --file gallery.html
  dress2mydoor extract --dir ./frontend --format jsonl
  dress2mydoor extract --page https://dress2mydoor.com/gallery.html --format yaml -o dresses.yaml
  dress2mydoor extract --page https://dress2mydoor.com/gallery --next "a.next-page" --max-pages 5`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()
	addInputFlags(flags)
	flags.String("page", "", "URL of a gallery page to fetch")
	flags.String("next", "", "CSS selector for the next gallery page link (with --page)")
	flags.Int("max-pages", 10, "max gallery pages to follow (0=unlimited)")
	flags.Duration("delay", 200*time.Millisecond, "delay between page fetches")
	flags.Duration("timeout", 30*time.Second, "page fetch timeout")
	flags.String("max-size", "5MB", "largest page accepted from --page (e.g. 500KB, 0=unlimited)")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml")
	flags.Bool("pretty", true, "indent json output")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	format, _ := cmd.Flags().GetString("format")
	pretty, _ := cmd.Flags().GetBool("pretty")
	outPath, _ := cmd.Flags().GetString("output")
	page, _ := cmd.Flags().GetString("page")

	var (
		records []dress.Record
		err     error
	)
	if page != "" {
		records, err = extractPage(ctx, cmd, page)
	} else {
		records, err = extractLocal(cmd)
	}
	if err != nil {
		return err
	}
	logger.Debug("extracted dresses", "count", len(records))

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	w, err := output.NewWriter(out, output.Format(format), output.WithPretty(pretty))
	if err != nil {
		return err
	}
	if err := w.Write(records); err != nil {
		logger.Error("failed to write output", "error", err)
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if outPath != "" {
		logInfo("wrote %d dresses to %s", len(records), outPath)
	}
	return nil
}

func extractLocal(cmd *cobra.Command) ([]dress.Record, error) {
	input, err := seed.ResolveInput(inputOptions(cmd.Flags()))
	if err != nil {
		return nil, err
	}
	return input.Records, nil
}

func extractPage(ctx context.Context, cmd *cobra.Command, url string) ([]dress.Record, error) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	maxSizeStr, _ := cmd.Flags().GetString("max-size")
	next, _ := cmd.Flags().GetString("next")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	delay, _ := cmd.Flags().GetDuration("delay")

	// 0 or empty means unlimited
	var maxSize uint64
	if strings.TrimSpace(maxSizeStr) != "" && maxSizeStr != "0" {
		n, err := humanize.ParseBytes(maxSizeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid max-size %q: %w", maxSizeStr, err)
		}
		maxSize = n
	}

	f := newPageFetcher(timeout, maxSize)
	c := crawler.New(f, crawler.Config{NextSelector: next, MaxPages: maxPages, Delay: delay})
	results, err := c.Crawl(ctx, url)
	if err != nil {
		return nil, err
	}
	return crawler.Records(results), nil
}

// newPageFetcher returns a static fetcher for pages of at most maxSize bytes
// (0 = unlimited). The collector reads one byte past the limit so oversized
// pages are reported rather than silently truncated.
func newPageFetcher(timeout time.Duration, maxSize uint64) fetcher.Fetcher {
	bodyLimit := -1
	if maxSize > 0 {
		bodyLimit = int(maxSize) + 1
	}
	return &sizeLimitedFetcher{
		Fetcher: fetcher.NewStatic(fetcher.StaticConfig{Timeout: timeout, MaxBodySize: bodyLimit}),
		max:     maxSize,
	}
}

// sizeLimitedFetcher rejects pages larger than max bytes (0 = unlimited).
type sizeLimitedFetcher struct {
	fetcher.Fetcher
	max uint64
}

func (f *sizeLimitedFetcher) Fetch(ctx context.Context, url string) (fetcher.Page, error) {
	p, err := f.Fetcher.Fetch(ctx, url)
	if err != nil {
		return p, err
	}
	size := uint64(len(p.HTML))
	logger.Debug("fetched gallery page", "url", p.URL, "status", p.StatusCode, "size", humanize.Bytes(size))
	if f.max > 0 && size > f.max {
		return fetcher.Page{}, fmt.Errorf("page %s is %s, larger than --max-size %s",
			url, humanize.Bytes(size), humanize.Bytes(f.max))
	}
	return p, nil
}
