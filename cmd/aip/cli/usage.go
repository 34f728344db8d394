package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aipdev/aip/internal/config"
	"github.com/aipdev/aip/internal/history"
	"github.com/aipdev/aip/internal/log"
	"github.com/aipdev/aip/internal/tool"
	"github.com/aipdev/aip/internal/ui"
	"github.com/aipdev/aip/internal/usage"
)

var usageHistoryN int

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show usage windows for both tools",
	Long: `Fetch and display each tool's usage windows.

Claude Code reports percent used of each window; Codex CLI reports percent
left. Lines are labeled accordingly so the numbers read the way each tool's
own UI would show them.

Examples:
  # Current usage for both tools
  aip usage

  # Also show the last 5 recorded snapshots per tool
  aip usage --history 5`,
	Args: cobra.NoArgs,
	RunE: runUsage,
}

func init() {
	rootCmd.AddCommand(usageCmd)
	usageCmd.Flags().IntVar(&usageHistoryN, "history", 0, "show the last N recorded snapshots per tool")
}

func runUsage(cmd *cobra.Command, args []string) error {
	fetchers := []usage.Fetcher{
		usage.NewClaudeFetcher(cfg.HTTPTimeout()),
		usage.NewCodexFetcher(),
	}
	results := usage.FetchAll(context.Background(), fetchers...)

	hist, histErr := history.Open(filepath.Join(config.Dir(), "history.db"))
	if histErr != nil {
		log.Debug("usage history unavailable", "error", histErr)
	} else {
		defer hist.Close()
	}

	for _, t := range tool.All {
		fmt.Println(ui.Bold(t.String()))

		res := results[t]
		if res.Err != nil {
			// One tool being unreachable must not hide the other.
			fmt.Println(ui.Dim("  usage unavailable: " + res.Err.Error()))
		} else {
			for _, w := range res.Windows {
				fmt.Println("  " + ui.UsageLine(w))
			}
			if hist != nil {
				if err := hist.Record(res.Windows); err != nil {
					log.Debug("recording usage history", "error", err)
				}
			}
		}

		if usageHistoryN > 0 && hist != nil {
			printHistory(hist, t, usageHistoryN)
		}
	}
	return nil
}

func printHistory(hist *history.Store, t tool.Tool, n int) {
	snaps, err := hist.Recent(t, n)
	if err != nil {
		log.Debug("reading usage history", "error", err)
		return
	}
	if len(snaps) == 0 {
		return
	}
	fmt.Println(ui.Dim("  recent:"))
	for _, snap := range snaps {
		fmt.Printf("  %s %-7s %5.1f%% used\n",
			ui.Dim(snap.FetchedAt.Local().Format("Jan 02 15:04")),
			snap.Label, snap.UsedFrac*100)
	}
}
