package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jengzang/places-backend-go/internal/app"
	"github.com/jengzang/places-backend-go/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "placectl",
	Short: "Place detection backend",
	Long: `placectl manages the place detection backend: it serves the HTTP API,
runs batch detection over stored location history, and works the
review queue from the terminal.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
}

// buildApp loads config and assembles the application
func buildApp() (*app.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return app.New(cfg)
}
