package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aipdev/aip/internal/profile"
	"github.com/aipdev/aip/internal/ui"
)

var switchYes bool

var switchCmd = &cobra.Command{
	Use:   "switch <tool> <profile>",
	Short: "Switch a tool to a saved profile",
	Long: `Activate a saved profile: its credential becomes the tool's active
credential and the profile is marked current.

Before switching, the active credential is compared against the profile
currently marked as current. If they differ — typically because you logged
in through the tool directly — the switch stops and asks before the drifted
credential is overwritten. Save it first if you want to keep it.

Examples:
  # Switch Codex CLI to the 'work' profile
  aip switch codex work

  # Skip the drift confirmation
  aip switch codex work --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
	switchCmd.Flags().BoolVarP(&switchYes, "yes", "y", false, "overwrite a drifted active credential without asking")
}

func runSwitch(cmd *cobra.Command, args []string) error {
	t, err := resolveTool(args)
	if err != nil {
		return err
	}
	name := args[1]

	eng := profile.ForTool(t)
	outcome, err := eng.Switch(name, switchYes)
	if err != nil {
		return err
	}

	if outcome.Blocked() {
		dangling := outcome.Sync == profile.SyncMarkerDangling
		ui.Warnf("%s", driftReason(t, outcome.Marker, dangling))
		ok, err := ui.Confirm(fmt.Sprintf("Overwrite active credential with profile '%s'?", name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Switch cancelled; nothing was changed.")
			return nil
		}
		if outcome, err = eng.Switch(name, true); err != nil {
			return err
		}
		if outcome.Blocked() {
			return fmt.Errorf("switch still blocked (%s)", outcome.Sync)
		}
	}

	fmt.Printf("Switched %s to '%s'\n", t, name)
	return nil
}
