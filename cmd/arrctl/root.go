package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type cliConfig struct {
	Server  string
	Timeout time.Duration
}

func defaultServer() string {
	if v := os.Getenv("ARRCTL_SERVER"); v != "" {
		return v
	}
	return "http://localhost:8989"
}

// buildRootCmd constructs the Cobra command tree wired to the HTTP client helpers.
func buildRootCmd() *cobra.Command {
	cfg := &cliConfig{Server: defaultServer(), Timeout: 15 * time.Second}

	root := &cobra.Command{
		Use:           "arrctl",
		Short:         "Operator CLI for the arrmon daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.Server, "server", cfg.Server, "Base URL of the arrmon daemon (defaults ARRCTL_SERVER or http://localhost:8989)")
	root.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")

	statusCmd := &cobra.Command{Use: "status", Short: "Show daemon status", Example: "  arrctl status", RunE: func(cmd *cobra.Command, args []string) error {
		return getAndPrint(cfg, "/status")
	}}

	queueCmd := &cobra.Command{Use: "queue <radarr|sonarr>", Short: "Show the cached queue for a source", Example: "  arrctl queue radarr", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return getAndPrint(cfg, "/queue/"+args[0])
	}}

	stuckCmd := &cobra.Command{Use: "stuck", Short: "List downloads classified as stalled", RunE: func(cmd *cobra.Command, args []string) error {
		return getAndPrint(cfg, "/stuck")
	}}

	statsCmd := &cobra.Command{Use: "stats", Short: "Show progress-tracking statistics", RunE: func(cmd *cobra.Command, args []string) error {
		return getAndPrint(cfg, "/stats")
	}}

	progressCmd := &cobra.Command{Use: "progress <radarr|sonarr> <id>", Short: "Show recorded progress for one download", Example: "  arrctl progress radarr 1203", Args: cobra.ExactArgs(2), RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := strconv.ParseInt(args[1], 10, 64); err != nil {
			return fmt.Errorf("id must be an integer: %s", args[1])
		}
		return getAndPrint(cfg, "/downloads/"+args[0]+"/"+args[1]+"/progress")
	}}

	healthCmd := &cobra.Command{Use: "health", Short: "Show external service health", RunE: func(cmd *cobra.Command, args []string) error {
		return getAndPrint(cfg, "/health")
	}}

	refreshCmd := &cobra.Command{Use: "refresh", Short: "Trigger a refresh cycle now", RunE: func(cmd *cobra.Command, args []string) error {
		return postAndPrint(cfg, "/refresh", nil)
	}}

	cleanCmd := &cobra.Command{Use: "clean <radarr|sonarr>", Short: "Remove failed/completed/warning queue records", Example: "  arrctl clean sonarr", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return postAndPrint(cfg, "/queue/"+args[0]+"/inactive/remove", nil)
	}}

	cleanAllCmd := &cobra.Command{Use: "clean-all <radarr|sonarr>", Short: "Empty a source queue regardless of record status", Example: "  arrctl clean-all radarr", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return postAndPrint(cfg, "/queue/"+args[0]+"/all/remove", nil)
	}}

	removeStuckCmd := &cobra.Command{Use: "remove-stuck <radarr|sonarr> <id>...", Short: "Remove specific queue records by id", Example: "  arrctl remove-stuck radarr 1203 1204", Args: cobra.MinimumNArgs(2), RunE: func(cmd *cobra.Command, args []string) error {
		return postAndPrint(cfg, "/stuck/remove", map[string]any{"source": args[0], "ids": args[1:]})
	}}

	verboseCmd := &cobra.Command{Use: "verbose <on|off>", Short: "Toggle verbose logging on the daemon", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "on":
			return postAndPrint(cfg, "/verbose", map[string]any{"enabled": true})
		case "off":
			return postAndPrint(cfg, "/verbose", map[string]any{"enabled": false})
		default:
			return fmt.Errorf("verbose requires on or off, got: %s", args[0])
		}
	}}

	root.AddCommand(statusCmd, queueCmd, stuckCmd, statsCmd, progressCmd, healthCmd, refreshCmd, cleanCmd, cleanAllCmd, removeStuckCmd, verboseCmd)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	root.AddCommand(completionCmd)

	return root
}
