package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aipdev/aip/internal/backend"
	"github.com/aipdev/aip/internal/profile"
	"github.com/aipdev/aip/internal/ui"
)

var saveCmd = &cobra.Command{
	Use:   "save [tool] [profile]",
	Short: "Save the active credential as a profile",
	Long: `Save the credential currently in effect for a tool under a profile name,
and mark that profile as current.

If the profile already exists you are asked before it is overwritten.

Examples:
  # Save Claude Code's active credential as 'work'
  aip save claude work

  # Prompt for tool and name
  aip save`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	t, err := resolveTool(args)
	if err != nil {
		return err
	}
	name, err := resolveName(args)
	if err != nil {
		return err
	}

	eng := profile.ForTool(t)

	// Overwriting an existing profile needs a nod first.
	if _, err := backend.For(t).ReadProfile(name); err == nil {
		ok, err := ui.Confirm(fmt.Sprintf("Profile '%s' already exists for %s. Overwrite?", name, t))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	} else if !errors.Is(err, backend.ErrNotFound) {
		return err
	}

	if err := eng.SaveAndActivate(name); err != nil {
		return err
	}

	fmt.Printf("Saved profile '%s' for %s\n", name, t)
	return nil
}
