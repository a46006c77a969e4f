package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/dress2mydoor/dress2mydoor/internal/api"
	"github.com/dress2mydoor/dress2mydoor/internal/logger"
	"github.com/dress2mydoor/dress2mydoor/internal/mail"
	"github.com/dress2mydoor/dress2mydoor/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog, booking and contact API",
	Long: `Serve runs the HTTP API backed by a SQLite database.

Environment:
  PORT            listen port (default 5000)
  DATABASE_PATH   SQLite file (default dress2mydoor.db)
  ADMIN_TOKEN     shared secret for admin routes (or ADMIN_PASSWORD)
  GALLERY_PAGE    HTML page used when a seed request carries no dresses
  EMAIL_HOST, EMAIL_PORT, EMAIL_USER, EMAIL_PASSWORD, ADMIN_EMAIL
                  SMTP settings (host defaults to smtp.gmail.com); mail is
                  disabled without EMAIL_USER`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.Int("port", 5000, "listen port")
	flags.String("db", "dress2mydoor.db", "SQLite database path (\":memory:\" for a throwaway database)")
	flags.String("gallery-page", "", "HTML gallery page used as seed fallback")
	flags.String("allowed-origin", "*", "Access-Control-Allow-Origin value")
	flags.Float64("submit-rate", 1, "public form submissions allowed per second")
	flags.Int("submit-burst", 10, "burst of public form submissions")
	flags.Bool("log-json", true, "log as JSON")

	_ = viper.BindPFlag("port", flags.Lookup("port"))
	_ = viper.BindPFlag("database_path", flags.Lookup("db"))
	_ = viper.BindPFlag("gallery_page", flags.Lookup("gallery-page"))
	viper.SetDefault("email.host", "smtp.gmail.com")
	viper.SetDefault("email.port", 587)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if logJSON, _ := cmd.Flags().GetBool("log-json"); logJSON {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			Level: viper.GetString("log_level"),
			JSON:  true,
		})
	}

	dbPath := viper.GetString("database_path")
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	logger.Info("database ready", "path", dbPath)

	mailCfg := mail.Config{
		Host:       viper.GetString("email.host"),
		Port:       viper.GetInt("email.port"),
		Username:   viper.GetString("email.user"),
		Password:   viper.GetString("email.password"),
		AdminEmail: viper.GetString("email.admin"),
	}

	origin, _ := cmd.Flags().GetString("allowed-origin")
	submitRate, _ := cmd.Flags().GetFloat64("submit-rate")
	submitBurst, _ := cmd.Flags().GetInt("submit-burst")

	token := viper.GetString("token")
	if token == "" {
		logger.Warn("ADMIN_TOKEN not set, admin routes will refuse all requests")
	}

	srv := api.New(api.Config{
		AdminToken:    token,
		GalleryPage:   viper.GetString("gallery_page"),
		AllowedOrigin: origin,
		SubmitRate:    rate.Limit(submitRate),
		SubmitBurst:   submitBurst,
	}, st, mail.New(mailCfg))

	return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", viper.GetInt("port")))
}
