package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aipdev/aip/internal/profile"
	"github.com/aipdev/aip/internal/tool"
	"github.com/aipdev/aip/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles for each tool",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	for _, t := range tool.All {
		entries, err := profile.ForTool(t).Store().List()
		if err != nil {
			return err
		}

		fmt.Println(ui.Bold(t.String()))
		if len(entries) == 0 {
			fmt.Println(ui.Dim("  (no profiles)"))
			continue
		}
		for _, entry := range entries {
			if entry.Current {
				fmt.Printf("%s %s\n", ui.Green("*"), entry.Name)
			} else {
				fmt.Printf("  %s\n", entry.Name)
			}
		}
	}
	return nil
}

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current profile for each tool",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, t := range tool.All {
			current, err := profile.ForTool(t).Store().Current()
			if err != nil {
				return err
			}
			if current == "" {
				current = ui.Dim("(none)")
			}
			fmt.Printf("%-12s %s\n", t.String()+":", current)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(currentCmd)
}
