// Package login delegates to each tool's own login flow, then captures the
// credential it produced into a named profile.
//
// We never implement authentication ourselves; the tool's login command
// writes the active credential wherever that tool keeps it, and we snapshot
// the result with SaveAndActivate.
package login

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/aipdev/aip/internal/log"
	"github.com/aipdev/aip/internal/profile"
	"github.com/aipdev/aip/internal/tool"
)

// loginCommand returns the argv for a tool's interactive login flow.
func loginCommand(t tool.Tool) []string {
	switch t {
	case tool.Claude:
		return []string{"claude", "/login"}
	default:
		return []string{"codex", "login"}
	}
}

// Runner executes login flows. The zero value is usable; Exec can be
// replaced in tests.
type Runner struct {
	// Exec builds the login command. Defaults to exec.CommandContext.
	Exec func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func (r *Runner) exec(ctx context.Context, name string, args ...string) *exec.Cmd {
	if r.Exec != nil {
		return r.Exec(ctx, name, args...)
	}
	return exec.CommandContext(ctx, name, args...)
}

// Run launches the tool's login flow on the caller's terminal, waits for it
// to finish, and saves the resulting active credential under name.
func (r *Runner) Run(ctx context.Context, eng *profile.Engine, name string) error {
	if err := tool.ValidateName(name); err != nil {
		return err
	}

	argv := loginCommand(eng.Tool())
	cmd := r.exec(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Debug("running login flow", "tool", eng.Tool().Key(), "cmd", argv[0])
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s login failed: %w", eng.Tool(), err)
	}

	if err := eng.SaveAndActivate(name); err != nil {
		return fmt.Errorf("capturing credential after login: %w", err)
	}
	return nil
}
