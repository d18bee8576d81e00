package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hubmerge",
	Short: "hubmerge flattens one or more repositories into a single AI-readable merge report",
	Long: `hubmerge walks one or more git working trees, classifies every file,
applies a profile-driven inclusion policy, and renders a deterministic,
machine-consumable merge report (plus a JSON sidecar) that an AI agent can
read with a known reading plan and a measured confidence level.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(previewCmd)
}
