package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Instructor dashboard backend-for-frontend",
	Long: `dashboard aggregates the enrollment, course, payment and identity services into
instructor dashboard views, and mediates optimistic reordering of course content.

Configuration is read from defaults, an optional YAML file (--config or
DASHBOARD_CONFIG) and DASHBOARD_* environment variables, in increasing precedence.`,
	SilenceUsage: true,
}

func main() {
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("DASHBOARD_CONFIG"), "path to a YAML config file")
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(probeCmd())
	rootCmd.AddCommand(configCmd())
}
