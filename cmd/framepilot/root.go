package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "framepilot",
	Short: "Framepilot is a per-session frame navigation engine",
	Long: `Framepilot manages hierarchical navigation sessions: each session owns one
state machine that moves between work, emergency and terminated states while
navigating frame lists.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
}
