package main

import (
	"github.com/spf13/cobra"
)

var (
	serverURL string
	outputFmt string
)

var rootCmd = &cobra.Command{
	Use:   "plantctl",
	Short: "CLI for the fiber plant registry server",
	Long: `plantctl talks to a running registry server over its HTTP API.

It covers the day-to-day operator surface: inspecting the plant topology,
listing inventory and deployment tasks, and checking server health.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Registry server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")

	rootCmd.AddCommand(topologyCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(healthCmd)
}
