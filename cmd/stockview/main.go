package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/floware/stockview/internal/config"
)

var (
	configPath string
	logLevel   string
	apiURL     string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stockview",
	Short: "Inventory list with multi-key sorting",
	Long: `stockview keeps a product inventory behind a small REST API and browses it
from the terminal.

  stockview serve   start the API backed by sqlite, postgres or mysql
  stockview ui      open the interactive product list
  stockview list    print the product list once, sorted with --sort`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if apiURL != "" {
			cfg.Client.BaseURL = apiURL
		}

		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "base URL of the products API")

	rootCmd.AddCommand(serveCmd, uiCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
