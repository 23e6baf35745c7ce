package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/framepilot/internal/config"
	"github.com/aretw0/framepilot/internal/presentation/tui"
	redisAdapter "github.com/aretw0/framepilot/pkg/adapters/redis"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect mirrored sessions",
	Long: `List, inspect, and remove session snapshots from the Redis mirror.
Requires redis.enabled in the config; the mirror is a read model of a running
server, so removing a snapshot here does not stop the live session.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all mirrored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		store := getMirror(cmd)
		defer store.Close()

		ids, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No mirrored sessions found.")
			return
		}

		fmt.Println("Mirrored Sessions:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the snapshot of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		store := getMirror(cmd)
		defer store.Close()

		snap, err := store.Load(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}

		if tui.IsTTY() {
			render := tui.NewRenderer()
			out, err := render(tui.SnapshotMarkdown(*snap))
			if err == nil {
				fmt.Println(tui.StateBadge(snap.CurrentState))
				fmt.Print(out)
				return
			}
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more mirrored snapshots",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getMirror(cmd)
		defer store.Close()
		hasError := false

		for _, sessionID := range args {
			if err := store.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed snapshot '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

func getMirror(cmd *cobra.Command) *redisAdapter.Store {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Redis.Enabled {
		fmt.Println("The session command needs the Redis mirror: set redis.enabled in the config.")
		os.Exit(1)
	}
	return redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		redisAdapter.WithPrefix(cfg.Redis.Prefix))
}
