package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aipdev/aip/internal/login"
	"github.com/aipdev/aip/internal/profile"
)

var loginCmd = &cobra.Command{
	Use:   "login [tool] [profile]",
	Short: "Run a tool's login flow and save the result as a profile",
	Long: `Run the tool's own login flow on this terminal, then save the credential
it produced under the given profile name and mark it current.

aip never performs authentication itself; the tool's login command does,
and aip snapshots whatever it wrote.

Examples:
  # Log in to Codex CLI and save the credential as 'personal'
  aip login codex personal`,
	Args: cobra.MaximumNArgs(2),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	t, err := resolveTool(args)
	if err != nil {
		return err
	}
	name, err := resolveName(args)
	if err != nil {
		return err
	}

	runner := &login.Runner{}
	if err := runner.Run(cmd.Context(), profile.ForTool(t), name); err != nil {
		return err
	}

	fmt.Printf("Logged in and saved profile '%s' for %s\n", name, t)
	return nil
}
