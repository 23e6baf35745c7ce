package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/framepilot/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [session-id]",
	Short: "Export the statechart visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the navigation statechart.
With a session id, the session's current state is highlighted using the
Redis mirror.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		current := ""
		if len(args) > 0 {
			store := getMirror(cmd)
			defer store.Close()

			snap, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				fmt.Printf("Error loading session '%s': %v\n", args[0], err)
				os.Exit(1)
			}
			current = snap.CurrentState
		}

		fmt.Print(graph.GenerateMermaid(current))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
