// Package cmd implements the blub CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/bluberryhq/bluberry/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "blub",
		Short: "CLI client for the bluberry API",
		Long: "blub is a command-line admin client for the bluberry API.\n" +
			"It lets you review submissions, trigger price estimates,\n" +
			"publish eBay listings, and inspect scheduler jobs.",
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.blub.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("admin-password", "", "admin password for review endpoints")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("admin_password", rootCmd.PersistentFlags().Lookup("admin-password")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(submissionsCmd())
	rootCmd.AddCommand(jobsCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".blub")
	}

	viper.SetEnvPrefix("BLUB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(
		viper.GetString("server"),
		apiclient.WithAdminPassword(viper.GetString("admin_password")),
	)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
