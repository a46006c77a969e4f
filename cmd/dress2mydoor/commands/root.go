// Package commands implements the CLI commands for dress2mydoor.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
	"github.com/dress2mydoor/dress2mydoor/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "dress2mydoor",
	Short: "Dress gallery sync tool and catalog API",
	Long: `dress2mydoor keeps the shop's dress catalog in step with its gallery pages.

It extracts dresses from the gallery markup, pushes them to the seed
endpoint, and serves the catalog, booking and contact API.

Examples:
  # Seed from every gallery page in the frontend directory
  ADMIN_TOKEN=... dress2mydoor sync --dir ./frontend

  # Seed from one page and re-seed whenever it changes
  dress2mydoor sync --token ... --file gallery.html --watch

  # Preview what would be extracted
  dress2mydoor extract --file gallery.html --format yaml

  # Run the API
  dress2mydoor serve --port 5000`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			Level: viper.GetString("log_level"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.dress2mydoor.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".dress2mydoor")
		viper.SetConfigType("yaml")
	}

	bindEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// bindEnv maps environment variables onto viper keys.
func bindEnv() {
	viper.SetEnvPrefix("DRESS2MYDOOR")
	viper.AutomaticEnv()

	// Unprefixed names shared with the frontend's deployment.
	_ = viper.BindEnv("token", "ADMIN_TOKEN", "ADMIN_PASSWORD")
	_ = viper.BindEnv("api_base", "API_BASE")
	_ = viper.BindEnv("frontend_dir", "FRONTEND_DIR")
	_ = viper.BindEnv("port", "PORT")
	_ = viper.BindEnv("database_path", "DATABASE_PATH")
	_ = viper.BindEnv("gallery_page", "GALLERY_PAGE")
	_ = viper.BindEnv("email.host", "EMAIL_HOST")
	_ = viper.BindEnv("email.port", "EMAIL_PORT")
	_ = viper.BindEnv("email.user", "EMAIL_USER")
	_ = viper.BindEnv("email.password", "EMAIL_PASSWORD")
	_ = viper.BindEnv("email.admin", "ADMIN_EMAIL")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
