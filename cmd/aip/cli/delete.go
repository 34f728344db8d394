package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aipdev/aip/internal/profile"
	"github.com/aipdev/aip/internal/ui"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [tool] [profile]",
	Short: "Delete a saved profile",
	Long: `Delete a saved profile.

The profile marked as current cannot be deleted; switch to another profile
first. This keeps the active credential's saved copy from disappearing out
from under it.

Examples:
  aip delete claude old-account`,
	Args: cobra.MaximumNArgs(2),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	t, err := resolveTool(args)
	if err != nil {
		return err
	}
	name, err := resolveName(args)
	if err != nil {
		return err
	}

	ok, err := ui.Confirm(fmt.Sprintf("Delete profile '%s' for %s?", name, t))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := profile.ForTool(t).Delete(name); err != nil {
		if errors.Is(err, profile.ErrProfileInUse) {
			return fmt.Errorf("'%s' is the current profile for %s; switch away before deleting it", name, t)
		}
		return err
	}

	fmt.Printf("Deleted profile '%s' for %s\n", name, t)
	return nil
}
