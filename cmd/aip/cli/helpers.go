package cli

import (
	"fmt"

	"github.com/aipdev/aip/internal/tool"
	"github.com/aipdev/aip/internal/ui"
)

// resolveTool picks the tool from an optional positional arg, prompting when
// absent.
func resolveTool(args []string) (tool.Tool, error) {
	if len(args) > 0 {
		return tool.Parse(args[0])
	}
	answer, err := ui.Prompt("Tool (claude/codex)")
	if err != nil {
		return 0, err
	}
	return tool.Parse(answer)
}

// resolveName picks the profile name from an optional second positional arg,
// prompting when absent.
func resolveName(args []string) (string, error) {
	if len(args) > 1 {
		name := args[1]
		return name, tool.ValidateName(name)
	}
	name, err := ui.Prompt("Profile name")
	if err != nil {
		return "", err
	}
	return name, tool.ValidateName(name)
}

// driftReason explains a blocked switch for one-shot commands.
func driftReason(t tool.Tool, marker string, dangling bool) string {
	if dangling {
		return fmt.Sprintf("%s's current marker points at profile '%s', which no longer exists", t, marker)
	}
	return fmt.Sprintf("%s's active credential no longer matches profile '%s' (did you log in through the tool directly?)", t, marker)
}
