package main

import (
	"fmt"

	"github.com/aretw0/framepilot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of framepilot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("framepilot version %s\n", framepilot.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
