package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
	"github.com/dress2mydoor/dress2mydoor/internal/seed"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Extract dresses from gallery pages and seed the catalog",
	Long: `Sync reads dresses from a JSON file, one HTML page, a list of pages or
every top-level .html/.htm file in a directory, and posts them to
{api}/dresses/seed with the admin token.

Input is chosen in this order: --file, --files, --dir.

Exit codes:
  2  no admin token
  3  input file or directory not found
  4  invalid JSON input
  5  unsupported --file extension
  6  no HTML files to read
  7  no dresses extracted
  10 seed endpoint unreachable

Examples:
  dress2mydoor sync --token $ADMIN_TOKEN --dir ./frontend
  dress2mydoor sync --file dresses.json --url https://api.example.com/api
  dress2mydoor sync --files index.html,gallery.html --watch`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	flags := syncCmd.Flags()
	addInputFlags(flags)
	flags.String("token", "", "admin token (or ADMIN_TOKEN / ADMIN_PASSWORD)")
	flags.String("url", seed.DefaultAPIBase, "API base URL (or API_BASE)")
	flags.Bool("watch", false, "re-seed when an input HTML file changes")
	flags.Duration("debounce", 200*time.Millisecond, "quiet period before re-seeding after a change")
	flags.Duration("timeout", 30*time.Second, "seed request timeout")

	_ = viper.BindPFlag("token", flags.Lookup("token"))
	_ = viper.BindPFlag("api_base", flags.Lookup("url"))
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := inputOptions(cmd.Flags())
	opts.Token = viper.GetString("token")
	opts.APIBase = viper.GetString("api_base")
	opts.Watch, _ = cmd.Flags().GetBool("watch")
	opts.Debounce, _ = cmd.Flags().GetDuration("debounce")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	logger.Debug("sync command starting",
		"api_base", opts.APIBase,
		"file", opts.File,
		"files", opts.Files,
		"dir", opts.Dir,
		"watch", opts.Watch,
	)

	client := seed.NewClient(opts.APIBase, opts.Token, seed.WithTimeout(timeout))
	driver := seed.NewDriver(opts, client)
	if err := driver.Run(ctx); err != nil {
		return err
	}

	logInfo("sync finished (%s)", driver.State())
	return nil
}
