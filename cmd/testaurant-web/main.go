// Package main is the entry point for the Testaurant web dashboard.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Set by the release build.
var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "testaurant-web",
	Short: "Testaurant web dashboard",
	Long: `Server-rendered dashboard for the Testaurant API testing platform.

Examples:
  testaurant-web serve
  testaurant-web serve --config /etc/testaurant/config.yaml --port 8080
  testaurant-web version`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("testaurant-web %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
