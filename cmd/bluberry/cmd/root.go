// Package cmd implements the CLI commands for the bluberry server.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	apiURL        string
	adminPassword string
)

var rootCmd = &cobra.Command{
	Use:   "bluberry",
	Short: "Consumer resale service with eBay listing publication",
	Long: "A web service that takes household item submissions, estimates resale " +
		"prices, and publishes approved items as live eBay listings through the " +
		"Sell Inventory API.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().
		StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		StringVar(&adminPassword, "admin-password", "", "admin password for review endpoints")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
