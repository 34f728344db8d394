// Package cli implements the aip command-line interface using Cobra.
// It provides commands for saving, switching, deleting, and inspecting
// credential profiles for Claude Code and Codex CLI, plus usage reporting.
package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aipdev/aip/internal/config"
	"github.com/aipdev/aip/internal/dashboard"
	"github.com/aipdev/aip/internal/history"
	"github.com/aipdev/aip/internal/log"
	"github.com/aipdev/aip/internal/profile"
	"github.com/aipdev/aip/internal/tool"
	"github.com/aipdev/aip/internal/usage"
)

var (
	verbose bool
	cfg     *config.Global
)

var rootCmd = &cobra.Command{
	Use:   "aip",
	Short: "aip - profile manager for Claude Code and Codex CLI",
	Long: `aip manages named credential profiles for Claude Code and Codex CLI.

Save the credential you are logged in with, switch between saved profiles,
and watch each tool's remaining usage windows. Before any switch, aip
compares the active credential against the profile it believes is current;
if they differ (you logged in directly through the tool), the switch stops
and asks before anything is overwritten.

Run without a subcommand to open the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		tool.SetHomeOverride(tool.Claude, cfg.ClaudeHome)
		tool.SetHomeOverride(tool.Codex, cfg.CodexHome)

		interactive := cmd.Name() == "aip" // bare invocation opens the dashboard
		if err := log.Init(log.Options{
			Verbose:       verbose,
			Interactive:   interactive,
			DebugDir:      filepath.Join(config.Dir(), "debug"),
			RetentionDays: cfg.Debug.RetentionDays,
		}); err != nil {
			cmd.PrintErrf("Warning: failed to initialize debug logging: %v\n", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		engines := make([]*profile.Engine, 0, len(tool.All))
		for _, t := range tool.All {
			engines = append(engines, profile.ForTool(t))
		}

		hist, err := history.Open(filepath.Join(config.Dir(), "history.db"))
		if err != nil {
			log.Warn("usage history disabled", "error", err)
			hist = nil
		} else {
			defer hist.Close()
		}

		return dashboard.Run(dashboard.Options{
			Engines: engines,
			Fetchers: []usage.Fetcher{
				usage.NewClaudeFetcher(cfg.HTTPTimeout()),
				usage.NewCodexFetcher(),
			},
			History: hist,
		})
	},
}

// Execute runs the root command.
func Execute() error {
	defer log.Close()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
